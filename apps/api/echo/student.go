package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core/student"
)

type studentApi struct {
	svc      student.ServiceInterface
	validate *validator.Validate
	metrics  *metrics
}

func registerStudentAPI(g *echo.Group, auth *authenticator, api *studentApi) {
	sg := g.Group("/students", auth.middleware(), auth.staffMiddleware)
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/stats", api.stats)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

func (api *studentApi) get(ctx echo.Context) (student.Student, error) {
	s, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := bindQuery(ctx, filter, &filter.Paging); err != nil {
		return err
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	api.metrics.recordChange("student", "create")
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) stats(ctx echo.Context) error {
	summary, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing student stats")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := api.get(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	orig, err := api.get(ctx)
	if err != nil {
		return err
	}

	var data student.UpdateStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err = data.Validate(orig, api.validate); err != nil {
		return err
	}

	s, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	api.metrics.recordChange("student", "update")
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	api.metrics.recordChange("student", "delete")
	return ctx.NoContent(http.StatusNoContent)
}
