package web

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/portal"
	"github.com/trezcool/brightacademy/portal/listview"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc":  func(n int) int { return n + 1 },
	"prev": func(n int) int { return n - 1 },
	"next": func(n int) int { return n + 1 },
	"maxOne": func(n int) int {
		if n < 1 {
			return 1
		}
		return n
	},
	"isEdit":     func(fs listview.FormState) bool { return fs.Mode == listview.ModeEdit },
	"isTextArea": func(f listview.FieldState) bool { return f.Kind == listview.KindTextArea },
	"inputType": func(f listview.FieldState) string {
		switch f.Kind {
		case listview.KindDate:
			return "date"
		case listview.KindNumber:
			return "number"
		case listview.KindEmail:
			return "email"
		default:
			return "text"
		}
	},
}

type renderer struct {
	tmpl *template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() (*renderer, error) {
	tmpl, err := template.New("portal").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	return &renderer{tmpl: tmpl}, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// page is the data of every full page.
// resetForm is the new password form reached from a reset email.
type resetForm struct {
	UID    string
	Token  string
	Errors map[string]string
}

type page struct {
	Title    string
	LoggedIn bool
	Demo     bool
	Menu     []listview.Schema
	Flash    string
	Notice   string
	Message  string

	Username      string
	LoginError    string
	Classes       []string
	Enquiry       map[string]string
	EnquiryErrors map[string]string

	Reset *resetForm

	Dashboard *portal.Dashboard
	Snap      *listview.Snapshot
}
