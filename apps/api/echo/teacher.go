package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/teacher"
)

type teacherApi struct {
	svc      teacher.ServiceInterface
	validate *validator.Validate
	metrics  *metrics
}

func registerTeacherAPI(g *echo.Group, auth *authenticator, api *teacherApi) {
	tg := g.Group("/teachers", auth.middleware(), auth.staffMiddleware)
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

func (api *teacherApi) get(ctx echo.Context) (teacher.Teacher, error) {
	t, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return t, nil
}

// Handlers

func (api *teacherApi) query(ctx echo.Context) error {
	filter := new(teacher.QueryFilter)
	if err := bindQuery(ctx, filter, &filter.Paging); err != nil {
		return err
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	teachers, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *teacherApi) create(ctx echo.Context) error {
	var data teacher.NewTeacher
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeacher")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	if err := api.svc.CheckUniqueness(reqCtx, data.Email); err != nil {
		return err
	}

	t, err := api.svc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating teacher")
	}
	api.metrics.recordChange("teacher", "create")
	return ctx.JSON(http.StatusCreated, t)
}

func (api *teacherApi) retrieve(ctx echo.Context) error {
	t, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) update(ctx echo.Context) error {
	orig, err := api.get(ctx)
	if err != nil {
		return err
	}

	var data teacher.UpdateTeacher
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTeacher")
	}
	if err = data.Validate(orig, api.validate); err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()
	if err = api.svc.CheckUniqueness(reqCtx, data.Email, orig.ID); err != nil {
		return err
	}

	t, err := api.svc.Update(reqCtx, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	api.metrics.recordChange("teacher", "update")
	return ctx.JSON(http.StatusOK, t)
}

func (api *teacherApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	api.metrics.recordChange("teacher", "delete")
	return ctx.NoContent(http.StatusNoContent)
}
