package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.GET("", api.retrieve)
	ag.POST("", api.save)
	ag.POST("/load", api.load)
}

// Handlers

// load stages the attendance sheet of a group for a date.
func (api *attendanceApi) load(ctx echo.Context) error {
	var gd GroupDate
	if err := gd.Bind(ctx); err != nil {
		return err
	}

	sheet, err := api.svc.Load(ctx.Request().Context(), gd.GroupID, gd.Date)
	if err != nil {
		return errors.Wrap(err, "loading attendance sheet")
	}

	return ctx.JSON(http.StatusOK, sheet)
}

func (api *attendanceApi) save(ctx echo.Context) error {
	var data attendance.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}

	att, err := api.svc.Save(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving attendance")
	}

	return ctx.JSON(http.StatusCreated, att)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	var gd GroupDate
	if err := gd.Bind(ctx); err != nil {
		return err
	}

	att, err := api.svc.Get(ctx.Request().Context(), gd.GroupID, gd.Date)
	if err != nil {
		return errors.Wrap(err, "getting attendance")
	}

	return ctx.JSON(http.StatusOK, att)
}
