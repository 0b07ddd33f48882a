package grade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/student"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")
	ErrExists   = errors.New("a grade for this student and term already exists")
)

type (
	Repository interface {
		// CreateGrade fails with ErrExists if the Student already has a Grade for the term.
		CreateGrade(ctx context.Context, g Grade) (Grade, error)
		GetGrade(ctx context.Context, id string) (Grade, error)
		FilterGrades(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Grade, error)
		UpdateGrade(ctx context.Context, g Grade) (Grade, error)
		DeleteGrade(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ng NewGrade) (Grade, error)
		GetByID(ctx context.Context, id string) (Grade, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Grade, error)
		Update(ctx context.Context, id string, ug UpdateGrade) (Grade, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo    Repository
		stdRepo student.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, stdRepo student.Repository) *Service {
	return &Service{repo: repo, stdRepo: stdRepo}
}

func (svc *Service) Create(ctx context.Context, ng NewGrade) (Grade, error) {
	std, err := svc.stdRepo.GetStudent(ctx, ng.StudentID)
	if err != nil {
		if err == student.ErrNotFound {
			return Grade{}, core.NewValidationError(err, core.FieldError{Field: "studentId", Error: err.Error()})
		}
		return Grade{}, err
	}

	now := time.Now().UTC()
	g := Grade{
		ID:            uuid.NewString(),
		StudentID:     std.ID,
		StudentName:   std.FullName(),
		StudentClass:  std.Class,
		Term:          ng.Term,
		English:       *ng.English,
		Chichewa:      *ng.Chichewa,
		Math:          *ng.Math,
		Science:       *ng.Science,
		SocialStudies: *ng.SocialStudies,
		Comments:      ng.Comments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	g, err = svc.repo.CreateGrade(ctx, g)
	if err == ErrExists {
		return Grade{}, core.NewValidationError(err, core.FieldError{Field: "term", Error: err.Error()})
	}
	return g, err
}

func (svc *Service) GetByID(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGrade(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Grade, error) {
	return svc.repo.FilterGrades(ctx, filter, ordering...)
}

func (svc *Service) Update(ctx context.Context, id string, ug UpdateGrade) (Grade, error) {
	orig, err := svc.repo.GetGrade(ctx, id)
	if err != nil {
		return Grade{}, err
	}
	g := ug.Apply(orig)
	g.UpdatedAt = time.Now().UTC()
	g, err = svc.repo.UpdateGrade(ctx, g)
	if err == ErrExists {
		return Grade{}, core.NewValidationError(err, core.FieldError{Field: "term", Error: err.Error()})
	}
	return g, err
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteGrade(ctx, id)
}
