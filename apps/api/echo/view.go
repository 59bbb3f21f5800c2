package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/roster"
)

type viewApi struct {
	binder   *roster.Binder
	messages *roster.Messages
	widgets  []*roster.Widget
}

// viewResponse is the current view plus the notifications not shown yet.
type viewResponse struct {
	roster.View
	Messages []string `json:"messages"`
}

type selectRequest struct {
	Control string   `json:"control"`
	Values  []string `json:"values"`
}

func registerViewAPI(g *echo.Group, binder *roster.Binder, messages *roster.Messages, widgets []*roster.Widget) {
	api := viewApi{binder: binder, messages: messages, widgets: widgets}

	vg := g.Group("/view")
	vg.GET("", api.retrieve)
	vg.POST("/select", api.selectValues)
	vg.POST("/calendar-filter", api.applyFilter)
	vg.DELETE("/calendar-filter", api.resetFilter)
	vg.POST("/reload", api.reload)
}

func (api *viewApi) respond(ctx echo.Context) error {
	msgs := api.messages.Drain()
	if msgs == nil {
		msgs = []string{}
	}
	return ctx.JSON(http.StatusOK, viewResponse{View: api.binder.View(), Messages: msgs})
}

// Handlers

func (api *viewApi) retrieve(ctx echo.Context) error {
	return api.respond(ctx)
}

func (api *viewApi) selectValues(ctx echo.Context) error {
	var data selectRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to selectRequest")
	}
	if err := api.binder.Select(data.Control, data.Values...); err != nil {
		return errors.Wrap(err, "selecting values")
	}
	return api.respond(ctx)
}

func (api *viewApi) applyFilter(ctx echo.Context) error {
	var ids IDs
	if err := ids.Bind(ctx); err != nil {
		return err
	}
	if err := api.binder.ApplyCalendarFilter(ids.Groups...); err != nil {
		return errors.Wrap(err, "applying calendar filter")
	}
	return api.respond(ctx)
}

func (api *viewApi) resetFilter(ctx echo.Context) error {
	api.binder.ResetCalendarFilter()
	return api.respond(ctx)
}

// reload refetches the events of every calendar widget. A failed widget shows no events;
// the view is returned with the first error's status.
func (api *viewApi) reload(ctx echo.Context) error {
	var firstErr error
	for _, w := range api.widgets {
		if err := w.Reload(ctx.Request().Context()); err != nil && !errors.Is(err, context.Canceled) && firstErr == nil {
			firstErr = errors.Wrapf(err, "reloading %s", w.Name())
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return api.respond(ctx)
}
