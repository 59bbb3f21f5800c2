package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
)

type homeworkApi struct {
	svc    *homework.Service
	groups *group.Store
}

// homeworkItem is a Homework with the name of its group (or "All Groups").
type homeworkItem struct {
	homework.Homework
	GroupLabel string `json:"groupLabel"`
}

func registerHomeworkAPI(g *echo.Group, svc *homework.Service, groups *group.Store) {
	api := homeworkApi{svc: svc, groups: groups}

	hg := g.Group("/homework")
	hg.GET("", api.query)
	hg.POST("", api.create)

	// detail endpoints
	dg := hg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *homeworkApi) items(ctx echo.Context, hws ...homework.Homework) ([]homeworkItem, error) {
	groups, err := api.groups.List(ctx.Request().Context())
	if err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	names := group.Names(groups)
	items := make([]homeworkItem, 0, len(hws))
	for _, hw := range hws {
		items = append(items, homeworkItem{Homework: hw, GroupLabel: hw.GroupLabel(names)})
	}
	return items, nil
}

func (api *homeworkApi) one(ctx echo.Context, code int, hw homework.Homework) error {
	items, err := api.items(ctx, hw)
	if err != nil {
		return err
	}
	return ctx.JSON(code, items[0])
}

// Handlers

func (api *homeworkApi) query(ctx echo.Context) error {
	hws, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying homework")
	}
	items, err := api.items(ctx, hws...)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *homeworkApi) create(ctx echo.Context) error {
	var data homework.NewHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHomework")
	}

	hw, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating homework")
	}

	return api.one(ctx, http.StatusCreated, hw)
}

func (api *homeworkApi) retrieve(ctx echo.Context) error {
	hw, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting homework")
	}
	return api.one(ctx, http.StatusOK, hw)
}

func (api *homeworkApi) update(ctx echo.Context) error {
	var data homework.UpdateHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateHomework")
	}

	hw, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating homework")
	}

	return api.one(ctx, http.StatusOK, hw)
}

func (api *homeworkApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting homework")
	}
	return ctx.NoContent(http.StatusNoContent)
}
