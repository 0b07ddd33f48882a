package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/brightacademy/core"
)

const DefaultPhoto = "https://via.placeholder.com/50"

type Student struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Gender         string    `json:"gender"`
	DOB            string    `json:"dob"`
	Class          string    `json:"studentClass"`
	EnrollmentDate string    `json:"enrollmentDate"`
	ParentName     string    `json:"parentName"`
	Relationship   string    `json:"relationship"`
	ParentPhone    string    `json:"parentPhone"`
	Address        string    `json:"address"`
	Photo          string    `json:"photo"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

func (s Student) FullName() string {
	return core.CleanString(s.FirstName + " " + s.LastName)
}

// Age returns the age of the Student at the given time; false if the DOB is unknown.
func (s Student) Age(at time.Time) (int, bool) {
	dob, err := core.ParseDate(s.DOB)
	if err != nil {
		return 0, false
	}
	return core.AgeAt(dob, at), true
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Gender         string `json:"gender" validate:"required,gender"`
	DOB            string `json:"dob" validate:"required,isodate"`
	Class          string `json:"studentClass" validate:"required,schoolclass"`
	EnrollmentDate string `json:"enrollmentDate" validate:"omitempty,isodate"`
	ParentName     string `json:"parentName" validate:"required"`
	Relationship   string `json:"relationship"`
	ParentPhone    string `json:"parentPhone" validate:"required"`
	Address        string `json:"address"`
	Photo          string `json:"photo" validate:"omitempty,url"`
}

func (ns *NewStudent) clean() {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Gender = core.CleanString(ns.Gender)
	ns.DOB = core.CleanString(ns.DOB)
	ns.Class = core.CleanString(ns.Class)
	ns.EnrollmentDate = core.CleanString(ns.EnrollmentDate)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.Relationship = core.CleanString(ns.Relationship)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.Address = core.CleanString(ns.Address)
	ns.Photo = core.CleanString(ns.Photo)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.clean()
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Blank fields keep their original value.
type UpdateStudent NewStudent

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate) error {
	ns := (*NewStudent)(us)
	ns.clean()

	keep := func(val *string, origVal string) {
		if *val == "" {
			*val = origVal
		}
	}
	keep(&us.FirstName, orig.FirstName)
	keep(&us.LastName, orig.LastName)
	keep(&us.Gender, orig.Gender)
	keep(&us.DOB, orig.DOB)
	keep(&us.Class, orig.Class)
	keep(&us.EnrollmentDate, orig.EnrollmentDate)
	keep(&us.ParentName, orig.ParentName)
	keep(&us.Relationship, orig.Relationship)
	keep(&us.ParentPhone, orig.ParentPhone)
	keep(&us.Address, orig.Address)
	keep(&us.Photo, orig.Photo)

	return validate.Struct(ns)
}

type QueryFilter struct {
	// Search does a case-insensitive match on one of FirstName, LastName or ParentName.
	Search string   `query:"search"`
	Class  string   `query:"class"`
	Gender string   `query:"gender"`
	IDs    []string `query:"id"`
	core.Paging
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Class == "" && qf.Gender == "" && qf.IDs == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Class = core.CleanString(qf.Class)
	qf.Gender = core.CleanString(qf.Gender)
}
