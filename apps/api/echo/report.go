package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	studentReportHeader = []interface{}{
		"First Name", "Last Name", "Gender", "Date of Birth", "Class", "Enrollment Date",
		"Parent/Guardian", "Relationship", "Phone", "Address",
	}
	gradeReportHeader = []interface{}{
		"Student", "Class", "Term", "English", "Chichewa", "Mathematics", "Science", "Social Studies",
		"Average", "Grade", "Comments",
	}
)

type reportApi struct {
	studentSvc student.ServiceInterface
	gradeSvc   grade.ServiceInterface
}

func registerReportAPI(g *echo.Group, auth *authenticator, api *reportApi) {
	rg := g.Group("/reports", auth.middleware(), auth.staffMiddleware)
	rg.GET("/students.xlsx", api.students)
	rg.GET("/grades.xlsx", api.grades)
}

// writeSheet writes header and rows into a single sheet workbook and streams it as an attachment.
func writeSheet(ctx echo.Context, filename, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	if err = f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if err = f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "computing cell name")
		}
		if err = f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, mimeXLSX)
	resp.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	resp.WriteHeader(http.StatusOK)
	return errors.Wrap(f.Write(resp), "writing workbook")
}

// Handlers

func (api *reportApi) students(ctx echo.Context) error {
	students, err := api.studentSvc.Query(ctx.Request().Context(), student.QueryFilter{})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	rows := make([][]interface{}, 0, len(students))
	for _, s := range students {
		rows = append(rows, []interface{}{
			s.FirstName, s.LastName, s.Gender, s.DOB, s.Class, s.EnrollmentDate,
			s.ParentName, s.Relationship, s.ParentPhone, s.Address,
		})
	}
	return writeSheet(ctx, "students.xlsx", "Students", studentReportHeader, rows)
}

func (api *reportApi) grades(ctx echo.Context) error {
	filter := new(grade.QueryFilter)
	if err := bindQuery(ctx, filter, &filter.Paging); err != nil {
		return err
	}
	filter.Clean()
	filter.Paging = core.Paging{} // reports are never paged

	grades, err := api.gradeSvc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}

	rows := make([][]interface{}, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []interface{}{
			g.StudentName, g.StudentClass, g.Term, g.English, g.Chichewa, g.Math, g.Science, g.SocialStudies,
			g.Average(), g.Letter(), g.Comments,
		})
	}
	return writeSheet(ctx, "grades.xlsx", "Grades", gradeReportHeader, rows)
}
