// Package sqlxrepos implements the core repositories on top of jmoiron/sqlx.
// Queries are written with `?` bind vars and rebound for the driver in use (postgres or sqlite3).
package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
)

// conditions accumulates the WHERE clause of a query.
type conditions struct {
	clauses []string
	args    []interface{}
}

func (c *conditions) add(clause string, args ...interface{}) {
	c.clauses = append(c.clauses, clause)
	c.args = append(c.args, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// search matches val case-insensitively against any of cols. LIKE wildcards in val match themselves.
func (c *conditions) search(val string, cols ...string) {
	if val == "" {
		return
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(val)) + "%"
	ors := make([]string, 0, len(cols))
	for _, col := range cols {
		ors = append(ors, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
		c.args = append(c.args, pattern)
	}
	c.clauses = append(c.clauses, "("+strings.Join(ors, " OR ")+")")
}

// in restricts col to vals. A nil slice adds no condition, an empty one matches nothing.
func (c *conditions) in(col string, vals []string) {
	if vals == nil {
		return
	}
	if len(vals) == 0 {
		c.clauses = append(c.clauses, "1 = 0")
		return
	}
	c.list(col+" IN", vals)
}

func (c *conditions) notIn(col string, vals []string) {
	if len(vals) == 0 {
		return
	}
	c.list(col+" NOT IN", vals)
}

func (c *conditions) list(expr string, vals []string) {
	c.clauses = append(c.clauses, expr+" (?"+strings.Repeat(", ?", len(vals)-1)+")")
	for _, v := range vals {
		c.args = append(c.args, v)
	}
}

func (c *conditions) String() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// orderBy renders ordering with the API field names mapped to columns. Unknown fields are ignored.
func orderBy(ordering []core.DBOrdering, columns map[string]string, dflt string) string {
	list := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		if col, ok := columns[ord.Field]; ok {
			list = append(list, core.DBOrdering{Field: col, Ascending: ord.Ascending}.String())
		}
	}
	if len(list) == 0 {
		return " ORDER BY " + dflt
	}
	return " ORDER BY " + strings.Join(list, ", ")
}

func limit(p core.Paging) string {
	if p.Limit <= 0 {
		return ""
	}
	q := " LIMIT " + strconv.Itoa(p.Limit)
	if p.Offset > 0 {
		q += " OFFSET " + strconv.Itoa(p.Offset)
	}
	return q
}

// trapNoRowsErr maps "no rows" errors to notFound.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// checkAffected returns notFound when res affected no rows.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
