package teacher

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/brightacademy/core"
)

var (
	// errors
	ErrNotFound    = errors.New("teacher not found")
	ErrEmailExists = errors.New("a teacher with this email already exists")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists if another Teacher than excludedID uses email.
		CheckEmailUniqueness(ctx context.Context, email string, excludedID ...string) error
		CreateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		FilterTeachers(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher) (Teacher, error)
		DeleteTeacher(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		CheckUniqueness(ctx context.Context, email string, excludedID ...string) error
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		GetByID(ctx context.Context, id string) (Teacher, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Teacher, error)
		Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error)
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, email string, excludedID ...string) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, excludedID...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	t := Teacher{
		ID:            uuid.NewString(),
		FirstName:     nt.FirstName,
		LastName:      nt.LastName,
		Gender:        nt.Gender,
		DOB:           nt.DOB,
		Email:         nt.Email,
		Phone:         nt.Phone,
		Qualification: nt.Qualification,
		HireDate:      nt.HireDate,
		Subjects:      nt.Subjects,
		Classes:       nt.Classes,
		Address:       nt.Address,
		Photo:         nt.Photo,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if t.Photo == "" {
		t.Photo = DefaultPhoto
	}
	return svc.repo.CreateTeacher(ctx, t)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Teacher, error) {
	return svc.repo.FilterTeachers(ctx, filter, ordering...)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	orig, err := svc.repo.GetTeacher(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	orig.FirstName = ut.FirstName
	orig.LastName = ut.LastName
	orig.Gender = ut.Gender
	orig.DOB = ut.DOB
	orig.Email = ut.Email
	orig.Phone = ut.Phone
	orig.Qualification = ut.Qualification
	orig.HireDate = ut.HireDate
	orig.Subjects = ut.Subjects
	orig.Classes = ut.Classes
	orig.Address = ut.Address
	orig.Photo = ut.Photo
	orig.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, orig)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTeacher(ctx, id)
}
