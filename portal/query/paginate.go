package query

import "github.com/trezcool/brightacademy/portal/record"

// Page is one page of a filtered list. Index is 1-based.
type Page struct {
	Index      int
	Size       int
	Total      int
	TotalPages int
	Items      []record.Entity
}

func (p Page) HasPrev() bool { return p.Index > 1 }

func (p Page) HasNext() bool { return p.Index < p.TotalPages }

// First and Last are the 1-based positions of the page's items in the filtered list, 0 when empty.
func (p Page) First() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.Index-1)*p.Size + 1
}

func (p Page) Last() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.First() + len(p.Items) - 1
}

// Paginate returns page index of items. The index is clamped into [1, max(1, totalPages)]
// before slicing, so a list that shrank under the current page shows its last page.
func Paginate(items []record.Entity, index, size int) Page {
	if size < 1 {
		size = 1
	}
	total := len(items)
	pages := (total + size - 1) / size

	if index > pages {
		index = pages
	}
	if index < 1 {
		index = 1
	}

	start := (index - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return Page{
		Index:      index,
		Size:       size,
		Total:      total,
		TotalPages: pages,
		Items:      items[start:end],
	}
}
