package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
)

const msgPasswordReset = "Your password has been reset. You can now log in."

// forgotPassword shows the reset request form and forwards requests to the API.
// The API answers the same way whether or not the account exists.
func (s *Server) forgotPassword(c echo.Context) error {
	if s.deps.Conf.Portal.Demo {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	p := s.newPage(nil, "Forgot password")
	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "password", p)
	}

	email := strings.TrimSpace(c.FormValue("email"))
	p.Username = email
	if email == "" {
		p.LoginError = msgRequired
		return c.Render(http.StatusBadRequest, "password", p)
	}
	notice, err := s.deps.API.RequestPasswordReset(c.Request().Context(), email)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			s.deps.Logger.Warn("password reset request failed", err)
		}
		p.LoginError = describe(err)
		return c.Render(http.StatusBadRequest, "password", p)
	}
	p.Notice = notice
	return c.Render(http.StatusOK, "password", p)
}

// resetPassword sets a new password with the uid and token of a reset link.
func (s *Server) resetPassword(c echo.Context) error {
	if s.deps.Conf.Portal.Demo {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	p := s.newPage(nil, "Choose a new password")
	p.Reset = &resetForm{UID: c.Param("uid"), Token: c.Param("token"), Errors: make(map[string]string)}
	if c.Request().Method == http.MethodGet {
		return c.Render(http.StatusOK, "password", p)
	}

	pwd, confirm := c.FormValue("password"), c.FormValue("password_confirm")
	if pwd == "" {
		p.Reset.Errors["password"] = msgRequired
		return c.Render(http.StatusBadRequest, "password", p)
	}
	err := s.deps.API.ConfirmPasswordReset(c.Request().Context(), p.Reset.UID, p.Reset.Token, pwd, confirm)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok && len(vErr.Fields) > 0 {
			p.Reset.Errors = vErr.FieldMap()
		} else {
			if !ok {
				s.deps.Logger.Warn("password reset failed", err)
			}
			p.Flash = describe(err)
		}
		return c.Render(http.StatusBadRequest, "password", p)
	}

	p = s.newPage(nil, "")
	p.Notice = msgPasswordReset
	return c.Render(http.StatusOK, "landing", p)
}
