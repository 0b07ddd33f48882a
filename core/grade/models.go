package grade

import (
	"encoding/json"
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/brightacademy/core"
)

// Subjects in report card order.
var Subjects = []string{"english", "chichewa", "math", "science", "socialStudies"}

// Average returns the rounded mean of scores (half rounds up). No scores averages to 0.
func Average(scores ...int) int {
	if len(scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range scores {
		sum += s
	}
	return int(math.Floor(float64(sum)/float64(len(scores)) + 0.5))
}

// Letter maps an average score to its letter grade.
func Letter(avg int) string {
	switch {
	case avg >= 80:
		return "A"
	case avg >= 70:
		return "B"
	case avg >= 60:
		return "C"
	case avg >= 50:
		return "D"
	default:
		return "F"
	}
}

// Grade is the report of one Student for one term.
// Average and Letter are derived from the scores and never stored.
type Grade struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	StudentClass  string    `json:"studentClass"`
	Term          string    `json:"term"`
	English       int       `json:"english"`
	Chichewa      int       `json:"chichewa"`
	Math          int       `json:"math"`
	Science       int       `json:"science"`
	SocialStudies int       `json:"socialStudies"`
	Comments      string    `json:"comments"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

func (g Grade) Scores() []int {
	return []int{g.English, g.Chichewa, g.Math, g.Science, g.SocialStudies}
}

func (g Grade) Average() int  { return Average(g.Scores()...) }
func (g Grade) Letter() string { return Letter(g.Average()) }

func (g Grade) MarshalJSON() ([]byte, error) {
	type grade Grade // drop methods to avoid recursion
	return json.Marshal(struct {
		grade
		Average int    `json:"average"`
		Letter  string `json:"grade"`
	}{grade(g), g.Average(), g.Letter()})
}

// NewGrade contains information needed to record a new Grade.
type NewGrade struct {
	StudentID     string `json:"studentId" validate:"required"`
	Term          string `json:"term" validate:"required,term"`
	English       *int   `json:"english" validate:"required,min=0,max=100"`
	Chichewa      *int   `json:"chichewa" validate:"required,min=0,max=100"`
	Math          *int   `json:"math" validate:"required,min=0,max=100"`
	Science       *int   `json:"science" validate:"required,min=0,max=100"`
	SocialStudies *int   `json:"socialStudies" validate:"required,min=0,max=100"`
	Comments      string `json:"comments"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	ng.StudentID = core.CleanString(ng.StudentID)
	ng.Term = core.CleanString(ng.Term)
	ng.Comments = core.CleanString(ng.Comments)
	return validate.Struct(ng)
}

// UpdateGrade defines what information may be provided to modify an existing Grade.
// Missing fields keep their original value; the Student cannot be changed.
type UpdateGrade struct {
	Term          string  `json:"term" validate:"omitempty,term"`
	English       *int    `json:"english" validate:"omitempty,min=0,max=100"`
	Chichewa      *int    `json:"chichewa" validate:"omitempty,min=0,max=100"`
	Math          *int    `json:"math" validate:"omitempty,min=0,max=100"`
	Science       *int    `json:"science" validate:"omitempty,min=0,max=100"`
	SocialStudies *int    `json:"socialStudies" validate:"omitempty,min=0,max=100"`
	Comments      *string `json:"comments"`
}

func (ug *UpdateGrade) Validate(validate *validator.Validate) error {
	ug.Term = core.CleanString(ug.Term)
	if ug.Comments != nil {
		c := core.CleanString(*ug.Comments)
		ug.Comments = &c
	}
	return validate.Struct(ug)
}

// Apply returns orig updated with the provided fields.
func (ug UpdateGrade) Apply(orig Grade) Grade {
	if ug.Term != "" {
		orig.Term = ug.Term
	}
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&orig.English, ug.English)
	set(&orig.Chichewa, ug.Chichewa)
	set(&orig.Math, ug.Math)
	set(&orig.Science, ug.Science)
	set(&orig.SocialStudies, ug.SocialStudies)
	if ug.Comments != nil {
		orig.Comments = *ug.Comments
	}
	return orig
}

type QueryFilter struct {
	// Search does a case-insensitive match on the Student's name.
	Search    string `query:"search"`
	Class     string `query:"class"`
	Term      string `query:"term"`
	StudentID string `query:"student_id"`
	core.Paging
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Class = core.CleanString(qf.Class)
	qf.Term = core.CleanString(qf.Term)
	qf.StudentID = core.CleanString(qf.StudentID)
}
