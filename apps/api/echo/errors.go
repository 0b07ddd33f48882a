package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errTooManyAttempts      = echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts, try again later")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errBadQuery             = echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")

	// domain errors answered with a fixed response, whatever the handler
	domainErrors = []struct {
		err  error
		resp *echo.HTTPError
	}{
		{err: student.ErrNotFound, resp: errHttpNotFound},
		{err: teacher.ErrNotFound, resp: errHttpNotFound},
		{err: grade.ErrNotFound, resp: errHttpNotFound},
		{err: user.ErrNotFound, resp: errHttpNotFound},
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, auth *authenticator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := http.StatusInternalServerError, interface{}(nil)

		cause := errors.Cause(err)
		for _, de := range domainErrors {
			if cause == de.err {
				cause = de.resp
				break
			}
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			code, message = httpErrorResponse(origErr)
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code, message = http.StatusBadRequest, fldErrs
		case *core.ValidationError:
			code, message = http.StatusBadRequest, origErr.Error()
			if origErr.Fields != nil {
				message = origErr.FieldMap()
			}
		default: // any other error is a server error
			message = http.StatusText(code)
			logger.Error(http.StatusText(code), errors.Wrap(err, "serving "+ctx.Path()), claimsUser(ctx, auth))
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, message)
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func httpErrorResponse(herr *echo.HTTPError) (int, interface{}) {
	if herr == middleware.ErrJWTMissing {
		return http.StatusUnauthorized, herr.Message
	}
	if inner, ok := herr.Internal.(*echo.HTTPError); ok {
		herr = inner
	}
	return herr.Code, herr.Message
}

// claimsUser is the user reported along with server errors, as far as the request token tells.
func claimsUser(ctx echo.Context, auth *authenticator) user.User {
	var usr user.User
	if claims, err := auth.contextClaims(ctx); err == nil {
		usr.ID = claims.Subject
		usr.Username = claims.Username
		usr.Email = claims.Email
	}
	return usr
}
