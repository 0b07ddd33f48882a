// Package query derives the visible rows of a list view: filtering then pagination.
// Both steps are pure and preserve the input order.
package query

import (
	"strings"

	"github.com/trezcool/brightacademy/portal/record"
)

// Filter is the filter state of a list view.
// Search is matched case-insensitively as a substring of any of SearchFields;
// each Equals entry requires an exact field value. All conditions must hold.
type Filter struct {
	Search       string
	SearchFields []string
	Equals       map[string]string // field -> value; "" means no constraint
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	if strings.TrimSpace(f.Search) != "" {
		return false
	}
	for _, v := range f.Equals {
		if v != "" {
			return false
		}
	}
	return true
}

func (f Filter) Match(e record.Entity) bool {
	for field, want := range f.Equals {
		if want != "" && e.String(field) != want {
			return false
		}
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range f.SearchFields {
		if strings.Contains(strings.ToLower(e.String(field)), term) {
			return true
		}
	}
	return false
}

// Apply returns the records matching f, in their original order.
func (f Filter) Apply(items []record.Entity) []record.Entity {
	out := make([]record.Entity, 0, len(items))
	for _, e := range items {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
