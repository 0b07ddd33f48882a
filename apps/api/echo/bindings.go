package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/brightacademy/core"
)

var (
	orderingParam = "ordering"
	maxPageSize   = 500
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads the comma separated `ordering` query param. Fields prefixed by "-" are sorted descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindQuery binds the query params into filter, reporting malformed values as a bad request.
func bindQuery(ctx echo.Context, filter interface{}, paging *core.Paging) error {
	if err := ctx.Bind(filter); err != nil {
		return errBadQuery
	}
	paging.Clean(maxPageSize)
	return nil
}
