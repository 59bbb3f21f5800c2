package roster

import (
	"context"
	"fmt"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/student"
)

// Entity kinds handled by the forms.
const (
	KindGroup    = "group"
	KindStudent  = "student"
	KindHomework = "homework"
	KindEvent    = "event"
)

const requiredFieldsMsg = "Please fill in all required fields"

var (
	errUnknownKind = core.NewValidationError(errors.New("unknown kind"))

	modalKinds = map[string]string{
		GroupModal:    KindGroup,
		StudentModal:  KindStudent,
		HomeworkModal: KindHomework,
		EventModal:    KindEvent,
	}
)

// ModalKind returns the entity kind saved by a modal.
func ModalKind(modalID string) (string, bool) {
	kind, ok := modalKinds[modalID]
	return kind, ok
}

// KindModal returns the modal saving records of kind.
func KindModal(kind string) (string, bool) {
	for modalID, k := range modalKinds {
		if k == kind {
			return modalID, true
		}
	}
	return "", false
}

type (
	Syncer interface {
		Batch(fn func() error) error
	}

	// Services are the stores and services mutated by the forms.
	Services struct {
		Groups     *group.Store
		Events     *calendar.Store
		Students   *student.Service
		Homework   *homework.Service
		Attendance *attendance.Service
	}

	// FormController turns modal submissions into store mutations.
	// A modal is in Edit state when it carries an editing marker, in Create state otherwise.
	FormController struct {
		svc        Services
		sync       Syncer
		modals     Modals
		notifier   Notifier
		translator ut.Translator
	}

	// GroupForm holds the fields of the group modal.
	GroupForm struct {
		Name        string `json:"name" form:"name"`
		Description string `json:"description" form:"description"`
		Color       string `json:"color" form:"color"`
	}

	// StudentForm holds the fields of the student modal.
	StudentForm struct {
		Name     string   `json:"name" form:"name"`
		Email    string   `json:"email" form:"email"`
		Phone    string   `json:"phone" form:"phone"`
		GroupIDs []string `json:"groups" form:"groups"`
	}

	// HomeworkForm holds the fields of the homework modal.
	HomeworkForm struct {
		Title       string `json:"title" form:"title"`
		Description string `json:"description" form:"description"`
		GroupID     string `json:"group" form:"group"`
	}

	// EventForm holds the fields of the event modal.
	EventForm struct {
		Title       string   `json:"title" form:"title"`
		Description string   `json:"description" form:"description"`
		Start       string   `json:"startDate" form:"startDate"`
		End         string   `json:"endDate" form:"endDate"`
		GroupIDs    []string `json:"groups" form:"groups"`
	}
)

func NewFormController(svc Services, sync Syncer, modals Modals, notifier Notifier, translator ut.Translator) *FormController {
	return &FormController{
		svc:        svc,
		sync:       sync,
		modals:     modals,
		notifier:   notifier,
		translator: translator,
	}
}

// Open shows a modal in Create state.
func (fc *FormController) Open(modalID string) {
	fc.modals.SetEditingMarker(modalID, "")
	fc.modals.Show(modalID)
}

// Cancel hides a modal and drops its editing marker.
func (fc *FormController) Cancel(modalID string) {
	fc.modals.SetEditingMarker(modalID, "")
	fc.modals.Hide(modalID)
}

// save runs the single mutation of a submission inside a resync batch, then hides the modal.
// mutate receives the editing marker ("" in Create state) and returns the saved record's name.
func (fc *FormController) save(modalID string, mutate func(editingID string) (string, error)) error {
	editingID := fc.modals.EditingMarker(modalID)
	var name string
	err := fc.sync.Batch(func() error {
		var err error
		name, err = mutate(editingID)
		return err
	})
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return err
	}

	fc.modals.SetEditingMarker(modalID, "")
	fc.modals.Hide(modalID)
	if editingID != "" {
		fc.notifier.Notify(fmt.Sprintf("%q has been updated!", name))
	} else {
		fc.notifier.Notify(fmt.Sprintf("%q has been added!", name))
	}
	return nil
}

func (fc *FormController) SaveGroup(ctx context.Context, form GroupForm) (group.Group, error) {
	var grp group.Group
	err := fc.save(GroupModal, func(editingID string) (string, error) {
		var err error
		if editingID != "" {
			grp, err = fc.svc.Groups.Update(ctx, editingID, group.UpdateGroup(form))
		} else {
			grp, err = fc.svc.Groups.Create(ctx, group.NewGroup(form))
		}
		return grp.Name, err
	})
	return grp, err
}

func (fc *FormController) SaveStudent(ctx context.Context, form StudentForm) (student.Student, error) {
	var std student.Student
	err := fc.save(StudentModal, func(editingID string) (string, error) {
		var err error
		if editingID != "" {
			std, err = fc.svc.Students.Update(ctx, editingID, student.UpdateStudent{
				Name:  form.Name,
				Email: form.Email,
				Phone: form.Phone,
			})
		} else {
			std, err = fc.svc.Students.Create(ctx, student.NewStudent(form))
		}
		return std.Name, err
	})
	return std, err
}

func (fc *FormController) SaveHomework(ctx context.Context, form HomeworkForm) (homework.Homework, error) {
	var hw homework.Homework
	err := fc.save(HomeworkModal, func(editingID string) (string, error) {
		var err error
		if editingID != "" {
			hw, err = fc.svc.Homework.Update(ctx, editingID, homework.UpdateHomework(form))
		} else {
			hw, err = fc.svc.Homework.Create(ctx, homework.NewHomework{
				Title:       form.Title,
				Description: form.Description,
				GroupID:     form.GroupID,
			})
		}
		return hw.Title, err
	})
	return hw, err
}

// SaveEvent creates (fanning out per group) or updates a calendar event.
func (fc *FormController) SaveEvent(ctx context.Context, form EventForm) ([]calendar.Event, error) {
	var events []calendar.Event
	err := fc.save(EventModal, func(editingID string) (string, error) {
		if editingID != "" {
			ev, err := fc.svc.Events.Update(ctx, editingID, calendar.UpdateEvent{
				Title:       form.Title,
				Description: form.Description,
				Start:       form.Start,
				End:         form.End,
			})
			if err != nil {
				return "", err
			}
			events = []calendar.Event{ev}
			return ev.Title, nil
		}
		var err error
		events, err = fc.svc.Events.Create(ctx, calendar.NewEvent{
			Title:       form.Title,
			Description: form.Description,
			Start:       form.Start,
			End:         form.End,
			GroupIDs:    form.GroupIDs,
		})
		return core.CleanString(form.Title), err
	})
	return events, err
}

// EditGroup puts the group modal in Edit state for `id` and returns the prefilled form.
func (fc *FormController) EditGroup(ctx context.Context, id string) (GroupForm, error) {
	grp, err := fc.svc.Groups.Get(ctx, id)
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return GroupForm{}, err
	}
	fc.edit(GroupModal, id)
	return GroupForm{Name: grp.Name, Description: grp.Description, Color: grp.Color}, nil
}

func (fc *FormController) EditStudent(ctx context.Context, id string) (StudentForm, error) {
	std, err := fc.svc.Students.Get(ctx, id)
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return StudentForm{}, err
	}
	fc.edit(StudentModal, id)
	return StudentForm{Name: std.Name, Email: std.Email, Phone: std.Phone, GroupIDs: std.GroupIDs}, nil
}

func (fc *FormController) EditHomework(ctx context.Context, id string) (HomeworkForm, error) {
	hw, err := fc.svc.Homework.Get(ctx, id)
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return HomeworkForm{}, err
	}
	fc.edit(HomeworkModal, id)
	return HomeworkForm{Title: hw.Title, Description: hw.Description, GroupID: hw.GroupID}, nil
}

func (fc *FormController) EditEvent(_ context.Context, id string) (EventForm, error) {
	ev, err := fc.svc.Events.Get(id)
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return EventForm{}, err
	}
	fc.edit(EventModal, id)
	return EventForm{
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start.Format("2006-01-02T15:04"),
		End:         ev.End.Format("2006-01-02T15:04"),
		GroupIDs:    ev.GroupIDs,
	}, nil
}

func (fc *FormController) edit(modalID, id string) {
	fc.modals.SetEditingMarker(modalID, id)
	fc.modals.Show(modalID)
}

// Delete removes a record of the given kind from its store.
func (fc *FormController) Delete(ctx context.Context, kind, id string) error {
	var del func(context.Context, string) error
	switch kind {
	case KindGroup:
		del = fc.svc.Groups.Delete
	case KindStudent:
		del = fc.svc.Students.Delete
	case KindHomework:
		del = fc.svc.Homework.Delete
	case KindEvent:
		del = fc.svc.Events.Delete
	default:
		return errors.Wrap(errUnknownKind, kind)
	}
	err := fc.sync.Batch(func() error { return del(ctx, id) })
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
	}
	return err
}

// LoadAttendance stages the attendance sheet of the group for the date; both are required.
func (fc *FormController) LoadAttendance(ctx context.Context, groupID, date string) (attendance.Sheet, error) {
	sheet, err := fc.svc.Attendance.Load(ctx, groupID, date)
	if err != nil {
		fc.notifier.Notify(fc.Message(err))
		return attendance.Sheet{}, err
	}
	return sheet, nil
}

// Message turns an error into the text shown to the user.
func (fc *FormController) Message(err error) string {
	if fldErrs := core.TranslateErrors(err, fc.translator); fldErrs != nil {
		return requiredFieldsMsg + ": " + joinFieldErrors(fldErrs)
	}
	switch cause := errors.Cause(err).(type) {
	case *core.ValidationError:
		if len(cause.Fields) > 0 {
			msgs := make(map[string]string, len(cause.Fields))
			for _, f := range cause.Fields {
				msgs[f.Field] = f.Error
			}
			return joinFieldErrors(msgs)
		}
		return cause.Error()
	case *core.LookupError:
		return cause.Error()
	}
	if core.IsRemoteFetch(err) {
		return "Could not reach the server, please try again"
	}
	return "Something went wrong, please try again"
}

func joinFieldErrors(fldErrs map[string]string) string {
	fields := make([]string, 0, len(fldErrs))
	for f := range fldErrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fldErrs[f])
	}
	return strings.Join(parts, ", ")
}
