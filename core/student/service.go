package student

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/stats"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")

	summarizer = stats.Summarizer[Student]{
		Groups: map[string]func(Student) string{
			"class":  func(s Student) string { return s.Class },
			"gender": func(s Student) string { return s.Gender },
		},
		Ranges: map[string]func(Student) (int, bool){
			"age": func(s Student) (int, bool) { return s.Age(core.NowFunc()) },
		},
	}
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		// DeleteStudent returns ErrNotFound if no Student was deleted.
		DeleteStudent(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
		Delete(ctx context.Context, id string) error
		Stats(ctx context.Context) (stats.Summary, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	s := Student{
		ID:             uuid.NewString(),
		FirstName:      ns.FirstName,
		LastName:       ns.LastName,
		Gender:         ns.Gender,
		DOB:            ns.DOB,
		Class:          ns.Class,
		EnrollmentDate: ns.EnrollmentDate,
		ParentName:     ns.ParentName,
		Relationship:   ns.Relationship,
		ParentPhone:    ns.ParentPhone,
		Address:        ns.Address,
		Photo:          ns.Photo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if s.EnrollmentDate == "" {
		s.EnrollmentDate = now.Format(core.ISODate)
	}
	if s.Relationship == "" {
		s.Relationship = "Parent"
	}
	if s.Photo == "" {
		s.Photo = DefaultPhoto
	}
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Student, error) {
	return svc.repo.FilterStudents(ctx, filter, ordering...)
}

// Update expects `us` to have been validated against the original Student.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	orig, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	orig.FirstName = us.FirstName
	orig.LastName = us.LastName
	orig.Gender = us.Gender
	orig.DOB = us.DOB
	orig.Class = us.Class
	orig.EnrollmentDate = us.EnrollmentDate
	orig.ParentName = us.ParentName
	orig.Relationship = us.Relationship
	orig.ParentPhone = us.ParentPhone
	orig.Address = us.Address
	orig.Photo = us.Photo
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}

// Stats returns the enrollment overview: total, class & gender distributions and age range.
func (svc *Service) Stats(ctx context.Context) (stats.Summary, error) {
	students, err := svc.repo.FilterStudents(ctx, QueryFilter{})
	if err != nil {
		return stats.Summary{}, err
	}
	return summarizer.Summarize(students), nil
}
