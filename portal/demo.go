package portal

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/record"
	"github.com/trezcool/brightacademy/storage/fixtures"
)

// DemoBackend returns an in-memory backend holding the demo students, teachers and grades.
func DemoBackend() (*record.MemoryBackend, error) {
	students := make([]record.Entity, 0, len(fixtures.Students))
	for _, ns := range fixtures.Students {
		e, err := toEntity(ns)
		if err != nil {
			return nil, err
		}
		if e.String("relationship") == "" {
			e["relationship"] = "Parent"
		}
		if e.String("photo") == "" {
			e["photo"] = student.DefaultPhoto
		}
		students = append(students, e)
	}
	students = record.Seed(students...)

	teachers := make([]record.Entity, 0, len(fixtures.Teachers))
	for _, nt := range fixtures.Teachers {
		e, err := toEntity(nt)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, e)
	}

	grades := make([]record.Entity, 0, len(fixtures.Grades))
	for _, g := range fixtures.Grades {
		std := students[g.Student]
		grades = append(grades, record.Entity{
			"studentId":     std["id"],
			"studentName":   listview.Text("", "firstName", "lastName").Format(std),
			"studentClass":  std.String("studentClass"),
			"term":          g.Term,
			"english":       g.English,
			"chichewa":      g.Chichewa,
			"math":          g.Math,
			"science":       g.Science,
			"socialStudies": g.SocialStudies,
			"comments":      g.Comments,
		})
	}

	return record.NewMemoryBackend(map[string][]record.Entity{
		KindStudents: students,
		KindTeachers: record.Seed(teachers...),
		KindGrades:   record.Seed(grades...),
	}), nil
}

func toEntity(v interface{}) (record.Entity, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding fixture")
	}
	e := make(record.Entity)
	if err = json.Unmarshal(b, &e); err != nil {
		return nil, errors.Wrap(err, "decoding fixture")
	}
	return e, nil
}
