package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/user"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (r *LoginRequest) Validate(validate *validator.Validate) error {
	r.Username = core.CleanString(r.Username, true /* lower */)
	return validate.Struct(r)
}

func (r *PasswordResetRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}

type userApi struct {
	auth     *authenticator
	resetSvc *user.ResetService
	limiter  LoginLimiter
	metrics  *metrics
	logger   core.Logger
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, api *userApi) {
	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag := ug.Group("", api.auth.middleware())
	ag.POST("/token-refresh", api.refreshToken)
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if api.limiter != nil {
		allowed, err := api.limiter.Allow(reqCtx, data.Username)
		if err != nil {
			// limiter failures do not block logins
			api.logger.Warn("checking login attempts", err)
		} else if !allowed {
			api.metrics.loginAttempts.WithLabelValues("throttled").Inc()
			return errTooManyAttempts
		}
	}

	claims, err := api.auth.authenticate(reqCtx, data.Username, data.Password)
	if err != nil {
		if err == errAuthenticationFailed {
			api.metrics.loginAttempts.WithLabelValues("failed").Inc()
			if api.limiter != nil {
				if lErr := api.limiter.Fail(reqCtx, data.Username); lErr != nil {
					api.logger.Warn("recording login attempt", lErr)
				}
			}
			return err
		}
		if _, ok := err.(*echo.HTTPError); ok {
			return err
		}
		return errors.Wrap(err, "authenticating")
	}
	api.metrics.loginAttempts.WithLabelValues("succeeded").Inc()
	if api.limiter != nil {
		if lErr := api.limiter.Reset(reqCtx, data.Username); lErr != nil {
			api.logger.Warn("resetting login attempts", lErr)
		}
	}

	token, err := api.auth.generateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) refreshToken(ctx echo.Context) error {
	token, err := api.auth.refreshToken(ctx)
	if err != nil {
		if herr, ok := errors.Cause(err).(*echo.HTTPError); ok {
			return herr
		}
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *userApi) resetPassword(ctx echo.Context) error {
	var data PasswordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PasswordResetRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.resetSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); err != nil && err != user.ErrNotFound {
		// the response never tells whether the account exists
		api.logger.Error("requesting password reset", errors.Wrap(err, "requesting password reset"))
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{
		Success: "If the email address supplied is associated with an active account on this system, " +
			"an email will arrive in your inbox shortly with instructions to reset your password.",
	})
}

func (api *userApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if err := api.resetSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "resetting password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been reset with the new password."})
}
