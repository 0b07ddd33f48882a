// Package fixtures holds the demo records used to seed a database and the portal's in-memory demo mode.
package fixtures

import (
	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
)

// Grade is a demo grade of Students[Student].
type Grade struct {
	Student       int
	Term          string
	English       int
	Chichewa      int
	Math          int
	Science       int
	SocialStudies int
	Comments      string
}

var Students = []student.NewStudent{
	{
		FirstName: "John", LastName: "Banda", Gender: core.GenderMale, DOB: "2015-03-15", Class: "Standard 5",
		EnrollmentDate: "2022-01-10", ParentName: "James Banda", Relationship: "Father",
		ParentPhone: "+265 888 123 456", Address: "Area 49, Lilongwe",
	},
	{
		FirstName: "Mary", LastName: "Phiri", Gender: core.GenderFemale, DOB: "2016-05-20", Class: "Standard 4",
		EnrollmentDate: "2022-01-10", ParentName: "Grace Phiri", Relationship: "Mother",
		ParentPhone: "+265 999 234 567", Address: "Area 25, Lilongwe",
	},
	{
		FirstName: "Peter", LastName: "Mwanza", Gender: core.GenderMale, DOB: "2017-07-10", Class: "Standard 3",
		EnrollmentDate: "2022-01-10", ParentName: "Andrew Mwanza", Relationship: "Father",
		ParentPhone: "+265 777 345 678", Address: "Area 18, Lilongwe",
	},
	{
		FirstName: "Anna", LastName: "Mkandawire", Gender: core.GenderFemale, DOB: "2018-09-05", Class: "Standard 2",
		EnrollmentDate: "2022-01-10", ParentName: "Esther Mkandawire", Relationship: "Mother",
		ParentPhone: "+265 888 456 789", Address: "Area 36, Lilongwe",
	},
	{
		FirstName: "David", LastName: "Jere", Gender: core.GenderMale, DOB: "2019-11-12", Class: "Standard 1",
		EnrollmentDate: "2022-01-10", ParentName: "Daniel Jere", Relationship: "Father",
		ParentPhone: "+265 999 567 890", Address: "Area 12, Lilongwe",
	},
	{
		FirstName: "Grace", LastName: "Kamtukule", Gender: core.GenderFemale, DOB: "2020-01-25", Class: "ECD",
		EnrollmentDate: "2022-01-10", ParentName: "Ruth Kamtukule", Relationship: "Mother",
		ParentPhone: "+265 777 678 901", Address: "Area 43, Lilongwe",
	},
}

var Teachers = []teacher.NewTeacher{
	{
		FirstName: "James", LastName: "Mkandawire", Gender: core.GenderMale, DOB: "1980-05-15",
		Email: "james.m@school.edu.mw", Phone: "+265 888 123 123", Qualification: "Diploma in Primary Education",
		HireDate: "2015-01-10", Subjects: "Math, Science", Classes: "Standard 5, Standard 6, Standard 7",
		Address: "Area 3, Lilongwe",
	},
	{
		FirstName: "Grace", LastName: "Phiri", Gender: core.GenderFemale, DOB: "1985-08-20",
		Email: "grace.p@school.edu.mw", Phone: "+265 999 234 234", Qualification: "Bachelor of Education",
		HireDate: "2018-03-15", Subjects: "English, Chichewa", Classes: "Standard 1, Standard 2, Standard 3",
		Address: "Area 10, Lilongwe",
	},
	{
		FirstName: "Esther", LastName: "Banda", Gender: core.GenderFemale, DOB: "1990-11-10",
		Email: "esther.b@school.edu.mw", Phone: "+265 777 345 345", Qualification: "Certificate in ECD",
		HireDate: "2020-01-05", Subjects: "ECD Subjects", Classes: "ECD",
		Address: "Area 25, Lilongwe",
	},
}

var Grades = []Grade{
	{
		Student: 0, Term: core.Term1, English: 75, Chichewa: 80, Math: 85, Science: 78, SocialStudies: 82,
		Comments: "Good performance, needs to improve in Science",
	},
	{
		Student: 1, Term: core.Term1, English: 85, Chichewa: 90, Math: 78, Science: 82, SocialStudies: 88,
		Comments: "Excellent performance, keep it up",
	},
	{
		Student: 2, Term: core.Term1, English: 65, Chichewa: 70, Math: 72, Science: 68, SocialStudies: 75,
		Comments: "Average performance, needs more effort",
	},
	{
		Student: 0, Term: core.Term2, English: 78, Chichewa: 82, Math: 88, Science: 80, SocialStudies: 85,
		Comments: "Improved in Science, well done",
	},
}
