package listview

import (
	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal/record"
)

// DisplayDate is the layout dates are shown in.
const DisplayDate = "2 Jan 2006"

const Placeholder = "No records found"

// Row is a rendered record. The edit and delete actions of the row carry ID.
type Row struct {
	ID    string
	Cells []string
}

type Table struct {
	Headers []string
	Rows    []Row
	// Placeholder is set instead of Rows when there is nothing to show.
	Placeholder string
}

// Render projects items onto the schema columns. It has no side effect.
func Render(s Schema, items []record.Entity) Table {
	t := Table{Headers: make([]string, 0, len(s.Columns))}
	for _, c := range s.Columns {
		t.Headers = append(t.Headers, c.Header)
	}
	if len(items) == 0 {
		t.Placeholder = Placeholder
		return t
	}

	t.Rows = make([]Row, 0, len(items))
	for _, e := range items {
		row := Row{ID: e.ID(), Cells: make([]string, 0, len(s.Columns))}
		for _, c := range s.Columns {
			row.Cells = append(row.Cells, c.Format(e))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// FormatDate turns an ISO date into its display form. Unparsable values are returned as is.
func FormatDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := core.ParseDate(iso)
	if err != nil {
		return iso
	}
	return t.Format(DisplayDate)
}
