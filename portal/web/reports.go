package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/brightacademy/portal/record"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reporter is a session backend that can download the API's spreadsheets.
// Demo backends are not.
type reporter interface {
	Report(ctx context.Context, name string) ([]byte, error)
}

var _ reporter = (*record.RemoteBackend)(nil)

var reportNames = map[string]bool{"students": true, "grades": true}

// downloadReport streams the :name spreadsheet, fetched from the API with the session's token.
func (s *Server) downloadReport(c echo.Context) error {
	sess := contextSession(c)
	name := c.Param("name")
	rep, ok := sess.backend.(reporter)
	if !ok || !reportNames[name] {
		return echo.ErrNotFound
	}

	data, err := rep.Report(c.Request().Context(), name)
	if err != nil {
		if record.IsUnauthorized(err) {
			return s.expire(c, sess)
		}
		s.report(sess, err)
		return c.Redirect(http.StatusSeeOther, "/portal")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`.xlsx"`)
	return c.Blob(http.StatusOK, mimeXLSX, data)
}
