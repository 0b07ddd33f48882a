package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/user"
	"github.com/trezcool/brightacademy/storage/database"
)

var dbCount int64

// PrepareDB opens a fresh, migrated, in-memory sqlite database which is closed at the end of the test.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := fmt.Sprintf("testdb%d", atomic.AddInt64(&dbCount, 1))
	db, err := sqlx.Open(database.EngineSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// CreateStudent inserts a Student created `order` seconds after a fixed instant, so that default ordering is stable.
func CreateStudent(t *testing.T, repo student.Repository, first, last, class, parent string, order int) student.Student {
	t.Helper()

	tstamp := time.Date(2024, time.January, 8, 8, 0, order, 0, time.UTC)
	s := student.Student{
		ID:             uuid.NewString(),
		FirstName:      first,
		LastName:       last,
		Gender:         core.GenderFemale,
		DOB:            "2015-03-15",
		Class:          class,
		EnrollmentDate: "2024-01-08",
		ParentName:     parent,
		Relationship:   "Parent",
		ParentPhone:    "+265 999 000 000",
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	}
	s, err := repo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

func CreateGrade(t *testing.T, repo grade.Repository, std student.Student, term string, scores ...int) grade.Grade {
	t.Helper()

	sc := make([]int, 5)
	copy(sc, scores)
	now := time.Now().UTC()
	g := grade.Grade{
		ID:            uuid.NewString(),
		StudentID:     std.ID,
		Term:          term,
		English:       sc[0],
		Chichewa:      sc[1],
		Math:          sc[2],
		Science:       sc[3],
		SocialStudies: sc[4],
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g, err := repo.CreateGrade(context.Background(), g)
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	return g
}
