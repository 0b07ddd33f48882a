package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
)

// grades are always read joined with their student
const gradeSelect = `SELECT g.id, g.student_id, s.first_name, s.last_name, s.student_class, g.term,
	g.english, g.chichewa, g.math, g.science, g.social_studies, g.comments, g.created_at, g.updated_at
	FROM grades g JOIN students s ON s.id = g.student_id`

var gradeOrdering = map[string]string{
	"studentName":  "s.first_name",
	"studentClass": "s.student_class",
	"term":         "g.term",
	"created_at":   "g.created_at",
}

type gradeRow struct {
	ID            string      `db:"id"`
	StudentID     string      `db:"student_id"`
	FirstName     string      `db:"first_name"`
	LastName      string      `db:"last_name"`
	StudentClass  string      `db:"student_class"`
	Term          string      `db:"term"`
	English       int         `db:"english"`
	Chichewa      int         `db:"chichewa"`
	Math          int         `db:"math"`
	Science       int         `db:"science"`
	SocialStudies int         `db:"social_studies"`
	Comments      null.String `db:"comments"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func newGradeRow(g grade.Grade) gradeRow {
	return gradeRow{
		ID:            g.ID,
		StudentID:     g.StudentID,
		Term:          g.Term,
		English:       g.English,
		Chichewa:      g.Chichewa,
		Math:          g.Math,
		Science:       g.Science,
		SocialStudies: g.SocialStudies,
		Comments:      null.NewString(g.Comments, g.Comments != ""),
		CreatedAt:     g.CreatedAt.UTC(),
		UpdatedAt:     g.UpdatedAt.UTC(),
	}
}

func (r gradeRow) grade() grade.Grade {
	return grade.Grade{
		ID:            r.ID,
		StudentID:     r.StudentID,
		StudentName:   core.CleanString(r.FirstName + " " + r.LastName),
		StudentClass:  r.StudentClass,
		Term:          r.Term,
		English:       r.English,
		Chichewa:      r.Chichewa,
		Math:          r.Math,
		Science:       r.Science,
		SocialStudies: r.SocialStudies,
		Comments:      r.Comments.String,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

// checkUniqueness returns grade.ErrExists if the student already has another grade for the term.
func (repo gradeRepository) checkUniqueness(ctx context.Context, g grade.Grade) error {
	var count int
	q := repo.db.Rebind(`SELECT COUNT(*) FROM grades WHERE student_id = ? AND term = ? AND id <> ?`)
	if err := repo.db.GetContext(ctx, &count, q, g.StudentID, g.Term, g.ID); err != nil {
		return errors.Wrap(err, "checking grade uniqueness")
	}
	if count > 0 {
		return grade.ErrExists
	}
	return nil
}

func (repo gradeRepository) CreateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	if err := repo.checkUniqueness(ctx, g); err != nil {
		return grade.Grade{}, err
	}
	q := `INSERT INTO grades (id, student_id, term, english, chichewa, math, science, social_studies, comments,
		created_at, updated_at) VALUES (:id, :student_id, :term, :english, :chichewa, :math, :science,
		:social_studies, :comments, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, newGradeRow(g)); err != nil {
		return grade.Grade{}, errors.Wrap(err, "inserting grade")
	}
	return repo.GetGrade(ctx, g.ID)
}

func (repo gradeRepository) GetGrade(ctx context.Context, id string) (grade.Grade, error) {
	var row gradeRow
	if err := repo.db.GetContext(ctx, &row, repo.db.Rebind(gradeSelect+` WHERE g.id = ?`), id); err != nil {
		return grade.Grade{}, trapNoRowsErr(err, grade.ErrNotFound, "getting grade")
	}
	return row.grade(), nil
}

func (repo gradeRepository) FilterGrades(ctx context.Context, filter grade.QueryFilter, ordering ...core.DBOrdering) ([]grade.Grade, error) {
	var where conditions
	where.search(filter.Search, "s.first_name", "s.last_name")
	if filter.Class != "" {
		where.add("s.student_class = ?", filter.Class)
	}
	if filter.Term != "" {
		where.add("g.term = ?", filter.Term)
	}
	if filter.StudentID != "" {
		where.add("g.student_id = ?", filter.StudentID)
	}

	q := gradeSelect + where.String() +
		orderBy(ordering, gradeOrdering, "g.created_at ASC, g.id ASC") + limit(filter.Paging)

	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), where.args...); err != nil {
		return nil, errors.Wrap(err, "filtering grades")
	}
	grades := make([]grade.Grade, 0, len(rows))
	for _, row := range rows {
		grades = append(grades, row.grade())
	}
	return grades, nil
}

func (repo gradeRepository) UpdateGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	if err := repo.checkUniqueness(ctx, g); err != nil {
		return grade.Grade{}, err
	}
	q := `UPDATE grades SET term = :term, english = :english, chichewa = :chichewa, math = :math,
		science = :science, social_studies = :social_studies, comments = :comments, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, newGradeRow(g))
	if err != nil {
		return grade.Grade{}, errors.Wrap(err, "updating grade")
	}
	if err = checkAffected(res, grade.ErrNotFound); err != nil {
		return grade.Grade{}, err
	}
	return repo.GetGrade(ctx, g.ID)
}

func (repo gradeRepository) DeleteGrade(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM grades WHERE id = ?`), id)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return checkAffected(res, grade.ErrNotFound)
}
