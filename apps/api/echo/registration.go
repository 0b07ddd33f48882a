package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/registration"
)

type registrationApi struct {
	svc      *registration.Service
	validate *validator.Validate
}

func registerRegistrationAPI(g *echo.Group, api *registrationApi) {
	g.POST("/registrations", api.submit)
}

// submit forwards a public enrollment enquiry to the school. Delivery failures are reported to the caller.
func (api *registrationApi) submit(ctx echo.Context) error {
	var data registration.Enquiry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Enquiry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.svc.Submit(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "submitting enquiry")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"message": "Thank you! We will get back to you shortly."})
}
