package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/calendar"
)

type eventApi struct {
	store *calendar.Store
}

func registerEventAPI(g *echo.Group, store *calendar.Store) {
	api := eventApi{store: store}

	eg := g.Group("/calendar-events")
	eg.GET("", api.query)
	eg.POST("", api.create)
	eg.PUT("/:id", api.update)
	eg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *eventApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.store.All())
}

// create stores the posted event as a single record.
func (api *eventApi) create(ctx echo.Context) error {
	var data calendar.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}

	ev, err := api.store.Put(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating calendar event")
	}

	return ctx.JSON(http.StatusCreated, ev)
}

func (api *eventApi) update(ctx echo.Context) error {
	var data calendar.UpdateEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEvent")
	}

	ev, err := api.store.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating calendar event")
	}

	return ctx.JSON(http.StatusOK, ev)
}

func (api *eventApi) destroy(ctx echo.Context) error {
	if err := api.store.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting calendar event")
	}
	return ctx.NoContent(http.StatusNoContent)
}
