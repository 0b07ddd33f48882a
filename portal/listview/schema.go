// Package listview implements the list view shared by every entity page of the portal:
// a searchable, filterable, paginated table of records with an add/edit form.
// A Schema configures it for one entity type.
package listview

import (
	"strings"

	"github.com/trezcool/brightacademy/portal/record"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindTextArea
	KindEmail
	KindDate
	KindNumber
	KindSelect
)

// Field is an input of the add/edit form.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string // KindSelect
	// Source is the kind of the records offered as options (by id) instead of Options.
	Source string
}

// Column is a table column. Format derives the cell from the record.
type Column struct {
	Header string
	Format func(record.Entity) string
}

// FilterField is an equality filter offered above the table.
type FilterField struct {
	Field   string // record field
	Param   string // API query parameter
	Label   string
	Options []string
}

// Related gives access to the records of other kinds, e.g. the students a grade refers to.
type Related func(kind, id string) (record.Entity, bool)

type Schema struct {
	Kind     string // "students", "teachers", "grades"
	Title    string
	Singular string

	Fields       []Field
	Columns      []Column
	SearchFields []string
	Filters      []FilterField
	PageSize     int

	// Prepare completes the parsed form data before it is sent. Optional.
	Prepare func(data record.Entity, related Related)
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Text is a column showing fields joined by a space.
func Text(header string, fields ...string) Column {
	return Column{
		Header: header,
		Format: func(e record.Entity) string {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				if v := e.String(f); v != "" {
					parts = append(parts, v)
				}
			}
			return strings.Join(parts, " ")
		},
	}
}

// Date is a column showing an ISO date field in display form.
func Date(header, field string) Column {
	return Column{
		Header: header,
		Format: func(e record.Entity) string { return FormatDate(e.String(field)) },
	}
}
