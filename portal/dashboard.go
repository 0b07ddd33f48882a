package portal

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/stats"
	"github.com/trezcool/brightacademy/portal/record"
)

var (
	studentSummarizer = stats.Summarizer[record.Entity]{
		Groups: map[string]func(record.Entity) string{
			"class":  func(e record.Entity) string { return e.String("studentClass") },
			"gender": func(e record.Entity) string { return e.String("gender") },
		},
		Ranges: map[string]func(record.Entity) (int, bool){
			"age": func(e record.Entity) (int, bool) {
				dob, err := core.ParseDate(e.String("dob"))
				if err != nil {
					return 0, false
				}
				return core.AgeAt(dob, core.NowFunc()), true
			},
		},
	}

	gradeSummarizer = stats.Summarizer[record.Entity]{
		Groups: map[string]func(record.Entity) string{
			"grade": func(e record.Entity) string { return grade.Letter(gradeAverage(e)) },
			"term":  func(e record.Entity) string { return e.String("term") },
		},
		Ranges: map[string]func(record.Entity) (int, bool){
			"average": func(e record.Entity) (int, bool) { return gradeAverage(e), true },
		},
	}
)

// Dashboard is the overview shown on the portal home page.
type Dashboard struct {
	Students stats.Summary
	Teachers int
	Grades   stats.Summary
	// ECD is the number of students in early childhood classes.
	ECD int
}

// Summarize computes the Dashboard from the current records.
func Summarize(students, teachers, grades []record.Entity) Dashboard {
	return Dashboard{
		Students: studentSummarizer.Summarize(students),
		Teachers: len(teachers),
		Grades:   gradeSummarizer.Summarize(grades),
		ECD: stats.Count(students, func(e record.Entity) bool {
			return core.IsECDClass(e.String("studentClass"))
		}),
	}
}

// LoadDashboard fetches every kind from backend and summarizes them.
func LoadDashboard(ctx context.Context, backend record.Backend, limit int) (Dashboard, error) {
	lists := make(map[string][]record.Entity, 3)
	for _, kind := range []string{KindStudents, KindTeachers, KindGrades} {
		items, err := backend.List(ctx, kind, record.Params{Limit: limit})
		if err != nil {
			return Dashboard{}, errors.Wrapf(err, "fetching %s", kind)
		}
		lists[kind] = items
	}
	return Summarize(lists[KindStudents], lists[KindTeachers], lists[KindGrades]), nil
}
