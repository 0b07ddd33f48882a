package sqlxrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
	sqlxrepos "github.com/trezcool/brightacademy/storage/database/sqlx"
	testutil "github.com/trezcool/brightacademy/tests"
)

func TestStudentRepository(t *testing.T) {
	ctx := context.Background()
	repo := sqlxrepos.NewStudentRepository(testutil.PrepareDB(t))

	john := testutil.CreateStudent(t, repo, "John", "Banda", "Standard 1", "Peter Banda", 1)
	mary := testutil.CreateStudent(t, repo, "Mary", "Phiri", "Standard 2", "Joyce Phiri", 2)
	grace := testutil.CreateStudent(t, repo, "Grace", "Mwale", "Standard 1", "Mary Mwale", 3)

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetStudent(ctx, mary.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mary", got.FirstName)
		assert.Equal(t, mary.CreatedAt, got.CreatedAt)

		_, err = repo.GetStudent(ctx, "lol")
		assert.Equal(t, student.ErrNotFound, err)
	})

	ids := func(students []student.Student) []string {
		out := make([]string, 0, len(students))
		for _, s := range students {
			out = append(out, s.ID)
		}
		return out
	}

	tests := []struct {
		name     string
		filter   student.QueryFilter
		ordering []core.DBOrdering
		want     []string
	}{
		{name: "all, insertion order", want: []string{john.ID, mary.ID, grace.ID}},
		{name: "search matches first name or parent name", filter: student.QueryFilter{Search: "MARY"}, want: []string{mary.ID, grace.ID}},
		{name: "class", filter: student.QueryFilter{Class: "Standard 1"}, want: []string{john.ID, grace.ID}},
		{name: "search percent is literal", filter: student.QueryFilter{Search: "%"}, want: []string{}},
		{name: "search underscore is literal", filter: student.QueryFilter{Search: "m_ry"}, want: []string{}},
		{name: "search backslash is literal", filter: student.QueryFilter{Search: `\`}, want: []string{}},
		{name: "search and class", filter: student.QueryFilter{Search: "mary", Class: "Standard 1"}, want: []string{grace.ID}},
		{name: "ids", filter: student.QueryFilter{IDs: []string{grace.ID, john.ID}}, want: []string{john.ID, grace.ID}},
		{name: "empty ids", filter: student.QueryFilter{IDs: []string{}}, want: []string{}},
		{name: "paging", filter: student.QueryFilter{Paging: core.Paging{Limit: 1, Offset: 1}}, want: []string{mary.ID}},
		{
			name:     "ordering",
			ordering: []core.DBOrdering{{Field: "firstName", Ascending: true}},
			want:     []string{grace.ID, john.ID, mary.ID},
		},
		{
			name:     "unknown ordering is ignored",
			ordering: []core.DBOrdering{{Field: "1; DROP TABLE students"}},
			want:     []string{john.ID, mary.ID, grace.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FilterStudents(ctx, tt.filter, tt.ordering...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}

	t.Run("update", func(t *testing.T) {
		john.Class = "Standard 3"
		john.Photo = ""
		got, err := repo.UpdateStudent(ctx, john)
		require.NoError(t, err)
		assert.Equal(t, "Standard 3", got.Class)
		assert.Equal(t, "", got.Photo)

		_, err = repo.UpdateStudent(ctx, student.Student{ID: "lol"})
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteStudent(ctx, john.ID))
		assert.Equal(t, student.ErrNotFound, repo.DeleteStudent(ctx, john.ID))
	})
}

func TestTeacherRepository(t *testing.T) {
	ctx := context.Background()
	repo := sqlxrepos.NewTeacherRepository(testutil.PrepareDB(t))
	now := time.Now().UTC()

	tchr, err := repo.CreateTeacher(ctx, teacher.Teacher{
		ID: uuid.NewString(), FirstName: "Ruth", LastName: "Chirwa", Gender: core.GenderFemale, DOB: "1985-06-01",
		Email: "ruth@brightacademy.mw", Phone: "0888", Qualification: "B.Ed", HireDate: "2015-01-05",
		Subjects: "English, Chichewa", Classes: "Standard 1, Standard 2", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	assert.Equal(t, teacher.ErrEmailExists, repo.CheckEmailUniqueness(ctx, "ruth@brightacademy.mw"))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "ruth@brightacademy.mw", tchr.ID))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "other@brightacademy.mw"))

	got, err := repo.FilterTeachers(ctx, teacher.QueryFilter{Search: "chichewa", Class: "standard 2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, tchr.ID, got[0].ID)

	got, err = repo.FilterTeachers(ctx, teacher.QueryFilter{Gender: core.GenderMale})
	require.NoError(t, err)
	assert.Empty(t, got)

	tchr.Qualification = "M.Ed"
	tchr, err = repo.UpdateTeacher(ctx, tchr)
	require.NoError(t, err)
	assert.Equal(t, "M.Ed", tchr.Qualification)

	require.NoError(t, repo.DeleteTeacher(ctx, tchr.ID))
	_, err = repo.GetTeacher(ctx, tchr.ID)
	assert.Equal(t, teacher.ErrNotFound, err)
}

func TestGradeRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.PrepareDB(t)
	stdRepo := sqlxrepos.NewStudentRepository(db)
	repo := sqlxrepos.NewGradeRepository(db)

	john := testutil.CreateStudent(t, stdRepo, "John", "Banda", "Standard 1", "Peter Banda", 1)
	mary := testutil.CreateStudent(t, stdRepo, "Mary", "Phiri", "Standard 2", "Joyce Phiri", 2)
	g1 := testutil.CreateGrade(t, repo, john, core.Term1, 78, 82, 88, 80, 85)
	g2 := testutil.CreateGrade(t, repo, mary, core.Term1, 65, 70, 72, 68, 75)

	t.Run("joined student", func(t *testing.T) {
		got, err := repo.GetGrade(ctx, g1.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Banda", got.StudentName)
		assert.Equal(t, "Standard 1", got.StudentClass)
		assert.Equal(t, "A", got.Letter())
	})

	t.Run("one grade per student and term", func(t *testing.T) {
		dup := g1
		dup.ID = uuid.NewString()
		_, err := repo.CreateGrade(ctx, dup)
		assert.Equal(t, grade.ErrExists, err)
	})

	t.Run("filter", func(t *testing.T) {
		got, err := repo.FilterGrades(ctx, grade.QueryFilter{Search: "phiri"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, g2.ID, got[0].ID)

		got, err = repo.FilterGrades(ctx, grade.QueryFilter{Class: "Standard 1", Term: core.Term1})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, g1.ID, got[0].ID)

		got, err = repo.FilterGrades(ctx, grade.QueryFilter{Term: core.Term2})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("deleting the student deletes their grades", func(t *testing.T) {
		require.NoError(t, stdRepo.DeleteStudent(ctx, mary.ID))
		_, err := repo.GetGrade(ctx, g2.ID)
		assert.Equal(t, grade.ErrNotFound, err)
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := sqlxrepos.NewUserRepository(testutil.PrepareDB(t))

	usr := testutil.CreateUser(t, repo, "Admin", "admin", "admin@brightacademy.mw", "Xq7#lmZ2vT", user.AdminRoles, true)
	assert.Equal(t, user.AdminRoles, usr.Roles)
	assert.True(t, usr.LastLogin.IsZero())
	assert.NoError(t, usr.CheckPassword("Xq7#lmZ2vT"))

	tests := []struct {
		name         string
		uname, email string
		exclude      []user.User
		wantErr      error
	}{
		{name: "username taken", uname: "admin", wantErr: user.ErrUsernameExists},
		{name: "email taken", email: "admin@brightacademy.mw", wantErr: user.ErrEmailExists},
		{name: "excluded", uname: "admin", email: "admin@brightacademy.mw", exclude: []user.User{usr}},
		{name: "free", uname: "bursar", email: "bursar@brightacademy.mw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, repo.CheckUsernameUniqueness(ctx, tt.uname, tt.email, tt.exclude...))
		})
	}

	got, err := repo.GetUser(ctx, user.GetFilter{UsernameOrEmail: "admin@brightacademy.mw"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	got.LastLogin = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	got, err = repo.UpdateUser(ctx, got)
	require.NoError(t, err)
	assert.True(t, got.LastLogin.Equal(time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)))

	_, err = repo.GetUser(ctx, user.GetFilter{ID: "lol"})
	assert.Equal(t, user.ErrNotFound, err)
}
