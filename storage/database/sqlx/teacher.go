package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/teacher"
)

const teacherColumns = `id, first_name, last_name, gender, dob, email, phone, qualification, hire_date,
	subjects, classes, address, photo, created_at, updated_at`

var teacherOrdering = map[string]string{
	"firstName":  "first_name",
	"lastName":   "last_name",
	"email":      "email",
	"hireDate":   "hire_date",
	"created_at": "created_at",
}

type teacherRow struct {
	ID            string      `db:"id"`
	FirstName     string      `db:"first_name"`
	LastName      string      `db:"last_name"`
	Gender        string      `db:"gender"`
	DOB           string      `db:"dob"`
	Email         string      `db:"email"`
	Phone         string      `db:"phone"`
	Qualification string      `db:"qualification"`
	HireDate      string      `db:"hire_date"`
	Subjects      string      `db:"subjects"`
	Classes       null.String `db:"classes"`
	Address       null.String `db:"address"`
	Photo         null.String `db:"photo"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func newTeacherRow(t teacher.Teacher) teacherRow {
	return teacherRow{
		ID:            t.ID,
		FirstName:     t.FirstName,
		LastName:      t.LastName,
		Gender:        t.Gender,
		DOB:           t.DOB,
		Email:         t.Email,
		Phone:         t.Phone,
		Qualification: t.Qualification,
		HireDate:      t.HireDate,
		Subjects:      t.Subjects,
		Classes:       null.NewString(t.Classes, t.Classes != ""),
		Address:       null.NewString(t.Address, t.Address != ""),
		Photo:         null.NewString(t.Photo, t.Photo != ""),
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
	}
}

func (r teacherRow) teacher() teacher.Teacher {
	return teacher.Teacher{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Gender:        r.Gender,
		DOB:           r.DOB,
		Email:         r.Email,
		Phone:         r.Phone,
		Qualification: r.Qualification,
		HireDate:      r.HireDate,
		Subjects:      r.Subjects,
		Classes:       r.Classes.String,
		Address:       r.Address.String,
		Photo:         r.Photo.String,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type teacherRepository struct {
	db *sqlx.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo teacherRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedID ...string) error {
	var where conditions
	where.add("email = ?", email)
	if len(excludedID) > 0 {
		where.add("id <> ?", excludedID[0])
	}

	var count int
	q := repo.db.Rebind(`SELECT COUNT(*) FROM teachers` + where.String())
	if err := repo.db.GetContext(ctx, &count, q, where.args...); err != nil {
		return errors.Wrap(err, "checking teacher email uniqueness")
	}
	if count > 0 {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `INSERT INTO teachers (` + teacherColumns + `) VALUES (:id, :first_name, :last_name, :gender, :dob,
		:email, :phone, :qualification, :hire_date, :subjects, :classes, :address, :photo, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newTeacherRow(t)); err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	var row teacherRow
	q := repo.db.Rebind(`SELECT ` + teacherColumns + ` FROM teachers WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return teacher.Teacher{}, trapNoRowsErr(err, teacher.ErrNotFound, "getting teacher")
	}
	return row.teacher(), nil
}

func (repo teacherRepository) FilterTeachers(ctx context.Context, filter teacher.QueryFilter, ordering ...core.DBOrdering) ([]teacher.Teacher, error) {
	var where conditions
	where.search(filter.Search, "first_name", "last_name", "email", "subjects")
	if filter.Gender != "" {
		where.add("gender = ?", filter.Gender)
	}
	where.search(filter.Class, "classes")

	q := `SELECT ` + teacherColumns + ` FROM teachers` + where.String() +
		orderBy(ordering, teacherOrdering, "created_at ASC, id ASC") + limit(filter.Paging)

	var rows []teacherRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), where.args...); err != nil {
		return nil, errors.Wrap(err, "filtering teachers")
	}
	teachers := make([]teacher.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.teacher())
	}
	return teachers, nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := `UPDATE teachers SET first_name = :first_name, last_name = :last_name, gender = :gender, dob = :dob,
		email = :email, phone = :phone, qualification = :qualification, hire_date = :hire_date,
		subjects = :subjects, classes = :classes, address = :address, photo = :photo, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newTeacherRow(t))
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	if err = checkAffected(res, teacher.ErrNotFound); err != nil {
		return teacher.Teacher{}, err
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM teachers WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	return checkAffected(res, teacher.ErrNotFound)
}
