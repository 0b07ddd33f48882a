package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (a *authenticator) adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := a.contextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && a.contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// staffMiddleware restricts access to active portal users.
func (a *authenticator) staffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		claims, err := a.contextClaims(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context claims")
		}
		if !claims.IsStaff {
			return errHttpForbidden
		}
		usr, err := a.contextUser(ctx, claims)
		if err != nil {
			return err
		}
		if !usr.IsActive {
			return errAccountDeactivated
		}
		return next(ctx)
	}
}
