package teacher

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/brightacademy/core"
)

const DefaultPhoto = "https://via.placeholder.com/50"

type Teacher struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Gender        string    `json:"gender"`
	DOB           string    `json:"dob"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Qualification string    `json:"qualification"`
	HireDate      string    `json:"hireDate"`
	Subjects      string    `json:"subjects"` // comma separated
	Classes       string    `json:"classes"`  // comma separated
	Address       string    `json:"address"`
	Photo         string    `json:"photo"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

func (t Teacher) FullName() string {
	return core.CleanString(t.FirstName + " " + t.LastName)
}

// NewTeacher contains information needed to hire a new Teacher.
type NewTeacher struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Gender        string `json:"gender" validate:"required,gender"`
	DOB           string `json:"dob" validate:"required,isodate"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required"`
	Qualification string `json:"qualification" validate:"required"`
	HireDate      string `json:"hireDate" validate:"required,isodate"`
	Subjects      string `json:"subjects" validate:"required"`
	Classes       string `json:"classes"`
	Address       string `json:"address"`
	Photo         string `json:"photo" validate:"omitempty,url"`
}

func (nt *NewTeacher) clean() {
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Gender = core.CleanString(nt.Gender)
	nt.DOB = core.CleanString(nt.DOB)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Phone = core.CleanString(nt.Phone)
	nt.Qualification = core.CleanString(nt.Qualification)
	nt.HireDate = core.CleanString(nt.HireDate)
	nt.Subjects = core.CleanString(nt.Subjects)
	nt.Classes = core.CleanString(nt.Classes)
	nt.Address = core.CleanString(nt.Address)
	nt.Photo = core.CleanString(nt.Photo)
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.clean()
	return validate.Struct(nt)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
// Blank fields keep their original value.
type UpdateTeacher NewTeacher

func (ut *UpdateTeacher) Validate(orig Teacher, validate *validator.Validate) error {
	nt := (*NewTeacher)(ut)
	nt.clean()

	keep := func(val *string, origVal string) {
		if *val == "" {
			*val = origVal
		}
	}
	keep(&ut.FirstName, orig.FirstName)
	keep(&ut.LastName, orig.LastName)
	keep(&ut.Gender, orig.Gender)
	keep(&ut.DOB, orig.DOB)
	keep(&ut.Email, orig.Email)
	keep(&ut.Phone, orig.Phone)
	keep(&ut.Qualification, orig.Qualification)
	keep(&ut.HireDate, orig.HireDate)
	keep(&ut.Subjects, orig.Subjects)
	keep(&ut.Classes, orig.Classes)
	keep(&ut.Address, orig.Address)
	keep(&ut.Photo, orig.Photo)

	return validate.Struct(nt)
}

type QueryFilter struct {
	// Search does a case-insensitive match on one of FirstName, LastName, Email or Subjects.
	Search string `query:"search"`
	Gender string `query:"gender"`
	// Class does a case-insensitive match on Classes.
	Class string `query:"class"`
	core.Paging
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Gender = core.CleanString(qf.Gender)
	qf.Class = core.CleanString(qf.Class)
}
