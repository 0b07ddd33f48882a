// Package portal configures the list views of the admin portal and its dashboard.
package portal

import (
	"strconv"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/record"
)

const (
	KindStudents = "students"
	KindTeachers = "teachers"
	KindGrades   = "grades"
)

var relationships = []string{"Father", "Mother", "Guardian", "Parent"}

func StudentSchema(pageSize int) listview.Schema {
	return listview.Schema{
		Kind:     KindStudents,
		Title:    "Students",
		Singular: "Student",
		Fields: []listview.Field{
			{Name: "firstName", Label: "First Name", Required: true},
			{Name: "lastName", Label: "Last Name", Required: true},
			{Name: "gender", Label: "Gender", Kind: listview.KindSelect, Options: core.Genders, Required: true},
			{Name: "dob", Label: "Date of Birth", Kind: listview.KindDate, Required: true},
			{Name: "studentClass", Label: "Class", Kind: listview.KindSelect, Options: core.Classes, Required: true},
			{Name: "enrollmentDate", Label: "Enrollment Date", Kind: listview.KindDate},
			{Name: "parentName", Label: "Parent/Guardian", Required: true},
			{Name: "relationship", Label: "Relationship", Kind: listview.KindSelect, Options: relationships},
			{Name: "parentPhone", Label: "Parent Phone", Required: true},
			{Name: "address", Label: "Address", Kind: listview.KindTextArea},
			{Name: "photo", Label: "Photo URL"},
		},
		Columns: []listview.Column{
			listview.Text("Name", "firstName", "lastName"),
			listview.Text("Gender", "gender"),
			listview.Date("Date of Birth", "dob"),
			listview.Text("Class", "studentClass"),
			listview.Text("Parent/Guardian", "parentName"),
			listview.Text("Phone", "parentPhone"),
			listview.Date("Enrolled", "enrollmentDate"),
		},
		SearchFields: []string{"firstName", "lastName", "parentName"},
		Filters: []listview.FilterField{
			{Field: "studentClass", Param: "class", Label: "Class", Options: core.Classes},
			{Field: "gender", Param: "gender", Label: "Gender", Options: core.Genders},
		},
		PageSize: pageSize,
	}
}

func TeacherSchema(pageSize int) listview.Schema {
	return listview.Schema{
		Kind:     KindTeachers,
		Title:    "Teachers",
		Singular: "Teacher",
		Fields: []listview.Field{
			{Name: "firstName", Label: "First Name", Required: true},
			{Name: "lastName", Label: "Last Name", Required: true},
			{Name: "gender", Label: "Gender", Kind: listview.KindSelect, Options: core.Genders, Required: true},
			{Name: "dob", Label: "Date of Birth", Kind: listview.KindDate, Required: true},
			{Name: "email", Label: "Email", Kind: listview.KindEmail, Required: true},
			{Name: "phone", Label: "Phone", Required: true},
			{Name: "qualification", Label: "Qualification", Required: true},
			{Name: "hireDate", Label: "Hire Date", Kind: listview.KindDate, Required: true},
			{Name: "subjects", Label: "Subjects", Required: true},
			{Name: "classes", Label: "Classes"},
			{Name: "address", Label: "Address", Kind: listview.KindTextArea},
			{Name: "photo", Label: "Photo URL"},
		},
		Columns: []listview.Column{
			listview.Text("Name", "firstName", "lastName"),
			listview.Text("Email", "email"),
			listview.Text("Phone", "phone"),
			listview.Text("Qualification", "qualification"),
			listview.Text("Subjects", "subjects"),
			listview.Text("Classes", "classes"),
			listview.Date("Hired", "hireDate"),
		},
		SearchFields: []string{"firstName", "lastName", "email", "subjects"},
		Filters: []listview.FilterField{
			{Field: "gender", Param: "gender", Label: "Gender", Options: core.Genders},
		},
		PageSize: pageSize,
	}
}

func GradeSchema(pageSize int) listview.Schema {
	fields := []listview.Field{
		{Name: "studentId", Label: "Student", Kind: listview.KindSelect, Source: KindStudents, Required: true},
		{Name: "term", Label: "Term", Kind: listview.KindSelect, Options: core.Terms, Required: true},
	}
	for i, subj := range grade.Subjects {
		fields = append(fields, listview.Field{Name: subj, Label: subjectLabels[i], Kind: listview.KindNumber, Required: true})
	}
	fields = append(fields, listview.Field{Name: "comments", Label: "Comments", Kind: listview.KindTextArea})

	cols := []listview.Column{
		listview.Text("Student", "studentName"),
		listview.Text("Class", "studentClass"),
		listview.Text("Term", "term"),
	}
	for i, subj := range grade.Subjects {
		cols = append(cols, listview.Text(subjectLabels[i], subj))
	}
	cols = append(cols,
		listview.Column{Header: "Average", Format: func(e record.Entity) string { return strconv.Itoa(gradeAverage(e)) }},
		listview.Column{Header: "Grade", Format: func(e record.Entity) string { return grade.Letter(gradeAverage(e)) }},
	)

	return listview.Schema{
		Kind:         KindGrades,
		Title:        "Grades",
		Singular:     "Grade",
		Fields:       fields,
		Columns:      cols,
		SearchFields: []string{"studentName"},
		Filters: []listview.FilterField{
			{Field: "studentClass", Param: "class", Label: "Class", Options: core.Classes},
			{Field: "term", Param: "term", Label: "Term", Options: core.Terms},
		},
		PageSize: pageSize,
		Prepare:  denormalizeStudent,
	}
}

var subjectLabels = []string{"English", "Chichewa", "Math", "Science", "Social Studies"}

// gradeAverage is derived from the scores whatever the record carries.
func gradeAverage(e record.Entity) int {
	scores := make([]int, 0, len(grade.Subjects))
	for _, subj := range grade.Subjects {
		n, _ := e.Int(subj)
		scores = append(scores, n)
	}
	return grade.Average(scores...)
}

// denormalizeStudent copies the name and class of the graded student onto the grade,
// the way the API returns them.
func denormalizeStudent(data record.Entity, related listview.Related) {
	std, ok := related(KindStudents, data.String("studentId"))
	if !ok {
		return
	}
	data["studentName"] = listview.Text("", "firstName", "lastName").Format(std)
	data["studentClass"] = std.String("studentClass")
}

// Schemas returns the list views of the portal, in menu order.
func Schemas(pageSize int) []listview.Schema {
	return []listview.Schema{StudentSchema(pageSize), TeacherSchema(pageSize), GradeSchema(pageSize)}
}

// NewListView builds the list view of sch over backend. The view owns its stores, related ones included,
// so searching one list never changes the records another view offers.
func NewListView(sch listview.Schema, backend record.Backend, opts ...listview.ViewOption) *listview.View {
	for _, f := range sch.Fields {
		if f.Source != "" {
			opts = append(opts, listview.WithRelated(record.NewStore(f.Source, backend)))
		}
	}
	return listview.NewView(sch, record.NewStore(sch.Kind, backend), opts...)
}
