package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/student"
)

const studentColumns = `id, first_name, last_name, gender, dob, student_class, enrollment_date, parent_name,
	relationship, parent_phone, address, photo, created_at, updated_at`

var studentOrdering = map[string]string{
	"firstName":      "first_name",
	"lastName":       "last_name",
	"dob":            "dob",
	"studentClass":   "student_class",
	"enrollmentDate": "enrollment_date",
	"created_at":     "created_at",
}

type studentRow struct {
	ID             string      `db:"id"`
	FirstName      string      `db:"first_name"`
	LastName       string      `db:"last_name"`
	Gender         string      `db:"gender"`
	DOB            string      `db:"dob"`
	Class          string      `db:"student_class"`
	EnrollmentDate string      `db:"enrollment_date"`
	ParentName     string      `db:"parent_name"`
	Relationship   string      `db:"relationship"`
	ParentPhone    string      `db:"parent_phone"`
	Address        null.String `db:"address"`
	Photo          null.String `db:"photo"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func newStudentRow(s student.Student) studentRow {
	return studentRow{
		ID:             s.ID,
		FirstName:      s.FirstName,
		LastName:       s.LastName,
		Gender:         s.Gender,
		DOB:            s.DOB,
		Class:          s.Class,
		EnrollmentDate: s.EnrollmentDate,
		ParentName:     s.ParentName,
		Relationship:   s.Relationship,
		ParentPhone:    s.ParentPhone,
		Address:        null.NewString(s.Address, s.Address != ""),
		Photo:          null.NewString(s.Photo, s.Photo != ""),
		CreatedAt:      s.CreatedAt.UTC(),
		UpdatedAt:      s.UpdatedAt.UTC(),
	}
}

func (r studentRow) student() student.Student {
	return student.Student{
		ID:             r.ID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Gender:         r.Gender,
		DOB:            r.DOB,
		Class:          r.Class,
		EnrollmentDate: r.EnrollmentDate,
		ParentName:     r.ParentName,
		Relationship:   r.Relationship,
		ParentPhone:    r.ParentPhone,
		Address:        r.Address.String,
		Photo:          r.Photo.String,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := `INSERT INTO students (` + studentColumns + `) VALUES (:id, :first_name, :last_name, :gender, :dob,
		:student_class, :enrollment_date, :parent_name, :relationship, :parent_phone, :address, :photo,
		:created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newStudentRow(s)); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	q := repo.db.Rebind(`SELECT ` + studentColumns + ` FROM students WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "getting student")
	}
	return row.student(), nil
}

func (repo studentRepository) FilterStudents(ctx context.Context, filter student.QueryFilter, ordering ...core.DBOrdering) ([]student.Student, error) {
	var where conditions
	where.search(filter.Search, "first_name", "last_name", "parent_name")
	if filter.Class != "" {
		where.add("student_class = ?", filter.Class)
	}
	if filter.Gender != "" {
		where.add("gender = ?", filter.Gender)
	}
	where.in("id", filter.IDs)

	q := `SELECT ` + studentColumns + ` FROM students` + where.String() +
		orderBy(ordering, studentOrdering, "created_at ASC, id ASC") + limit(filter.Paging)

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), where.args...); err != nil {
		return nil, errors.Wrap(err, "filtering students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := `UPDATE students SET first_name = :first_name, last_name = :last_name, gender = :gender, dob = :dob,
		student_class = :student_class, enrollment_date = :enrollment_date, parent_name = :parent_name,
		relationship = :relationship, parent_phone = :parent_phone, address = :address, photo = :photo,
		updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newStudentRow(s))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if err = checkAffected(res, student.ErrNotFound); err != nil {
		return student.Student{}, err
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM students WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return checkAffected(res, student.ErrNotFound)
}
