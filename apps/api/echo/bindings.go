package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
)

var (
	groupParam = "group"
	dateParam  = "date"
)

// GroupDate selects the attendance of a group on a day. It binds from the query string or a JSON body.
type GroupDate struct {
	GroupID string `json:"group" query:"group"`
	Date    string `json:"date" query:"date"`
}

func (gd *GroupDate) Bind(ctx echo.Context) error {
	data := ctx.QueryParams()
	if len(data) > 0 {
		gd.GroupID = data.Get(groupParam)
		gd.Date = data.Get(dateParam)
		return nil
	}
	if ctx.Request().ContentLength == 0 {
		return nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(ctx, gd); err != nil {
		return errors.Wrap(err, "binding to GroupDate")
	}
	return nil
}

// IDs is a list of group ids sent as `{"groups": [...]}`.
type IDs struct {
	Groups []string `json:"groups" form:"groups"`
}

func (ids *IDs) Bind(ctx echo.Context) error {
	if err := ctx.Bind(ids); err != nil {
		return errors.Wrap(err, "binding to IDs")
	}
	ids.Groups = core.CleanStrings(ids.Groups)
	return nil
}
