package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/roster"
)

type formApi struct {
	forms    *roster.FormController
	modals   *roster.ModalSet
	messages *roster.Messages
}

// formResponse carries the saved (or prefilled) record, the modal state and the notifications.
type formResponse struct {
	Modal    string      `json:"modal"`
	Open     bool        `json:"open"`
	Editing  string      `json:"editing"`
	Data     interface{} `json:"data"`
	Messages []string    `json:"messages"`
}

var errUnknownModal = core.NewValidationError(errors.New("unknown modal"))

func registerFormAPI(g *echo.Group, forms *roster.FormController, modals *roster.ModalSet, messages *roster.Messages) {
	api := formApi{forms: forms, modals: modals, messages: messages}

	fg := g.Group("/forms")
	fg.POST("/:form/open", api.open)
	fg.POST("/:form/cancel", api.cancel)
	fg.POST("/:form/save", api.save)
	fg.POST("/:form/:id/edit", api.edit)
	fg.DELETE("/:form/:id", api.destroy)
}

func (api *formApi) respond(ctx echo.Context, code int, modalID string, data interface{}) error {
	msgs := api.messages.Drain()
	if msgs == nil {
		msgs = []string{}
	}
	return ctx.JSON(code, formResponse{
		Modal:    modalID,
		Open:     api.modals.IsOpen(modalID),
		Editing:  api.modals.EditingMarker(modalID),
		Data:     data,
		Messages: msgs,
	})
}

func modalParam(ctx echo.Context) (modalID, kind string, err error) {
	modalID = ctx.Param("form")
	kind, ok := roster.ModalKind(modalID)
	if !ok {
		return "", "", errors.Wrap(errUnknownModal, modalID)
	}
	return modalID, kind, nil
}

// Handlers

func (api *formApi) open(ctx echo.Context) error {
	modalID, _, err := modalParam(ctx)
	if err != nil {
		return err
	}
	api.forms.Open(modalID)
	return api.respond(ctx, http.StatusOK, modalID, nil)
}

func (api *formApi) cancel(ctx echo.Context) error {
	modalID, _, err := modalParam(ctx)
	if err != nil {
		return err
	}
	api.forms.Cancel(modalID)
	return api.respond(ctx, http.StatusOK, modalID, nil)
}

// save submits the modal's form: Create or Edit depending on its editing marker.
func (api *formApi) save(ctx echo.Context) error {
	modalID, kind, err := modalParam(ctx)
	if err != nil {
		return err
	}
	reqCtx := ctx.Request().Context()

	var saved interface{}
	switch kind {
	case roster.KindGroup:
		var form roster.GroupForm
		if err = ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to GroupForm")
		}
		saved, err = api.forms.SaveGroup(reqCtx, form)
	case roster.KindStudent:
		var form roster.StudentForm
		if err = ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to StudentForm")
		}
		saved, err = api.forms.SaveStudent(reqCtx, form)
	case roster.KindHomework:
		var form roster.HomeworkForm
		if err = ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to HomeworkForm")
		}
		saved, err = api.forms.SaveHomework(reqCtx, form)
	case roster.KindEvent:
		var form roster.EventForm
		if err = ctx.Bind(&form); err != nil {
			return errors.Wrap(err, "binding to EventForm")
		}
		saved, err = api.forms.SaveEvent(reqCtx, form)
	}
	if err != nil {
		return errors.Wrapf(err, "saving %s", kind)
	}

	return api.respond(ctx, http.StatusOK, modalID, saved)
}

// edit puts the modal of kind in Edit state for the record and returns the prefilled form.
func (api *formApi) edit(ctx echo.Context) error {
	kind, id := ctx.Param("form"), ctx.Param("id")
	modalID, ok := roster.KindModal(kind)
	if !ok {
		return errors.Wrap(errUnknownModal, kind)
	}
	reqCtx := ctx.Request().Context()

	var (
		form interface{}
		err  error
	)
	switch kind {
	case roster.KindGroup:
		form, err = api.forms.EditGroup(reqCtx, id)
	case roster.KindStudent:
		form, err = api.forms.EditStudent(reqCtx, id)
	case roster.KindHomework:
		form, err = api.forms.EditHomework(reqCtx, id)
	case roster.KindEvent:
		form, err = api.forms.EditEvent(reqCtx, id)
	}
	if err != nil {
		return errors.Wrapf(err, "editing %s", kind)
	}

	return api.respond(ctx, http.StatusOK, modalID, form)
}

func (api *formApi) destroy(ctx echo.Context) error {
	kind := ctx.Param("form")
	if err := api.forms.Delete(ctx.Request().Context(), kind, ctx.Param("id")); err != nil {
		return errors.Wrapf(err, "deleting %s", kind)
	}
	return ctx.NoContent(http.StatusNoContent)
}
