// Package roster keeps the derived views of the classroom (group dropdowns and checkboxes,
// attendance preview, calendar event sets) in step with the group and event stores,
// and drives the create/edit forms that mutate them.
package roster

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
)

// Controls bound to the group list.
const (
	StudentGroupSelect    = "student-group"
	AttendanceGroupSelect = "attendance-group-select"
	HomeworkGroupSelect   = "homework-group-select"
	CalendarGroupFilter   = "calendar-group-filter"
	EventGroupsList       = "event-groups"

	MainCalendar = "calendar"
	MiniCalendar = "mini-calendar"
)

var (
	// single selects render an empty placeholder option first
	placeholders = map[string]string{
		StudentGroupSelect:    "Select group",
		AttendanceGroupSelect: "Select group",
		HomeworkGroupSelect:   "All groups",
	}
	selectIDs = []string{StudentGroupSelect, AttendanceGroupSelect, HomeworkGroupSelect, CalendarGroupFilter}

	errUnknownControl = core.NewValidationError(errors.New("unknown control"))
)

type (
	Option struct {
		Value    string `json:"value"`
		Label    string `json:"label"`
		Selected bool   `json:"selected"`
	}

	Select struct {
		ID       string   `json:"id"`
		Multiple bool     `json:"multiple"`
		Options  []Option `json:"options"`
	}

	Checkbox struct {
		ID      string `json:"id"`
		Value   string `json:"value"`
		Label   string `json:"label"`
		Checked bool   `json:"checked"`
	}

	Badge struct {
		GroupID      string `json:"groupId"`
		Name         string `json:"name"`
		StudentCount int    `json:"studentCount"`
		Label        string `json:"label"`
		Color        string `json:"color"`
	}

	CalendarItem struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		Description     string    `json:"description"`
		Start           time.Time `json:"start"`
		End             time.Time `json:"end"`
		BackgroundColor string    `json:"backgroundColor"`
		Groups          []string  `json:"groups"` // group names
	}

	// View is everything rendered from the group and event lists.
	View struct {
		Selects           map[string]Select         `json:"selects"`
		EventGroups       []Checkbox                `json:"eventGroups"`
		AttendancePreview []Badge                   `json:"attendancePreview"`
		Calendars         map[string][]CalendarItem `json:"calendars"`
		CalendarFilter    []string                  `json:"calendarFilter"`
	}

	// Source provides the current groups and events for a resync.
	Source interface {
		Snapshot(ctx context.Context) ([]group.Group, []calendar.Event, error)
	}

	// Binder regenerates the View from scratch on every resync, keeping the user's selections
	// that still refer to existing groups.
	Binder struct {
		source Source
		logger core.Logger

		mu       sync.Mutex
		view     View
		groups   []group.Group
		events   []calendar.Event
		selected map[string][]string // control -> selected values
		filter   []string

		batchMu sync.Mutex // one batch at a time
		depth   int32
		pending int32

		resyncs uint64
	}
)

func NewBinder(source Source, logger core.Logger) *Binder {
	b := &Binder{
		source:   source,
		logger:   logger,
		selected: make(map[string][]string),
	}
	b.Resync(nil, nil)
	atomic.StoreUint64(&b.resyncs, 0)
	return b
}

// Resyncs returns how many times the view was regenerated.
func (b *Binder) Resyncs() uint64 { return atomic.LoadUint64(&b.resyncs) }

// Resync regenerates every projection from groups and events. Calling it twice with the same
// inputs yields the same View.
func (b *Binder) Resync(groups []group.Group, events []calendar.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.groups = append([]group.Group(nil), groups...)
	b.events = append([]calendar.Event(nil), events...)
	known := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		known[g.ID] = struct{}{}
	}
	for ctrl, values := range b.selected {
		b.selected[ctrl] = keepKnown(values, known)
	}
	b.filter = keepKnown(b.filter, known)
	b.selected[CalendarGroupFilter] = b.filter

	view := View{
		Selects:           make(map[string]Select, len(selectIDs)),
		EventGroups:       make([]Checkbox, 0, len(groups)),
		AttendancePreview: make([]Badge, 0, len(groups)),
		Calendars:         make(map[string][]CalendarItem, 2),
		CalendarFilter:    append([]string{}, b.filter...),
	}
	for _, id := range selectIDs {
		view.Selects[id] = b.buildSelect(id, groups)
	}

	checked := toSet(b.selected[EventGroupsList])
	for _, g := range groups {
		_, ok := checked[g.ID]
		view.EventGroups = append(view.EventGroups, Checkbox{
			ID:      "event-group-" + g.ID,
			Value:   g.ID,
			Label:   g.Name,
			Checked: ok,
		})
		view.AttendancePreview = append(view.AttendancePreview, Badge{
			GroupID:      g.ID,
			Name:         g.Name,
			StudentCount: g.StudentCount,
			Label:        fmt.Sprintf("%d students", g.StudentCount),
			Color:        g.Color,
		})
	}

	view.Calendars[MainCalendar] = b.calendarItems(calendar.Filter(b.events, b.filter))
	view.Calendars[MiniCalendar] = b.calendarItems(b.events)

	b.view = view
	atomic.AddUint64(&b.resyncs, 1)
}

func (b *Binder) buildSelect(id string, groups []group.Group) Select {
	sel := Select{ID: id, Multiple: id == CalendarGroupFilter}
	current := toSet(b.selected[id])
	if ph, ok := placeholders[id]; ok {
		sel.Options = append(sel.Options, Option{Label: ph, Selected: len(current) == 0})
	}
	for _, g := range groups {
		_, ok := current[g.ID]
		sel.Options = append(sel.Options, Option{Value: g.ID, Label: g.Name, Selected: ok})
	}
	return sel
}

func (b *Binder) calendarItems(events []calendar.Event) []CalendarItem {
	names := group.Names(b.groups)
	items := make([]CalendarItem, 0, len(events))
	for _, ev := range events {
		item := CalendarItem{
			ID:              ev.ID,
			Title:           ev.Title,
			Description:     ev.Description,
			Start:           ev.Start,
			End:             ev.End,
			BackgroundColor: ev.BackgroundColor,
			Groups:          make([]string, 0, len(ev.GroupIDs)),
		}
		for _, gid := range ev.GroupIDs {
			if name, ok := names[gid]; ok {
				item.Groups = append(item.Groups, name)
			}
		}
		items = append(items, item)
	}
	return items
}

// View returns a copy of the current view.
func (b *Binder) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return copyView(b.view)
}

// Select records the user's selection for a control and regenerates the view.
// A value that is not an existing group is reported as a *core.LookupError and the
// previous selection is kept.
func (b *Binder) Select(control string, values ...string) error {
	if _, ok := placeholders[control]; !ok && control != CalendarGroupFilter && control != EventGroupsList {
		return errors.Wrap(errUnknownControl, control)
	}
	if control != CalendarGroupFilter && control != EventGroupsList && len(values) > 1 {
		values = values[:1]
	}

	b.mu.Lock()
	values = core.CleanStrings(values)
	known := make(map[string]struct{}, len(b.groups))
	for _, g := range b.groups {
		known[g.ID] = struct{}{}
	}
	for _, id := range values {
		if _, ok := known[id]; !ok {
			b.mu.Unlock()
			return core.NewLookupError("group", id)
		}
	}
	if control == CalendarGroupFilter {
		b.filter = values
	}
	b.selected[control] = values
	groups, events := b.groups, b.events
	b.mu.Unlock()

	b.Resync(groups, events)
	return nil
}

// ApplyCalendarFilter narrows the main calendar to events of the given groups.
func (b *Binder) ApplyCalendarFilter(groupIDs ...string) error {
	return b.Select(CalendarGroupFilter, groupIDs...)
}

// ResetCalendarFilter clears the filter; the main calendar shows every event again.
func (b *Binder) ResetCalendarFilter() {
	_ = b.Select(CalendarGroupFilter)
}

// showEvents replaces the event set of a single calendar widget (after a reload).
func (b *Binder) showEvents(widget string, events []calendar.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if widget == MainCalendar {
		events = calendar.Filter(events, b.filter)
	}
	view := copyView(b.view)
	view.Calendars[widget] = b.calendarItems(events)
	b.view = view
}

// Refresh pulls a snapshot from the source and resyncs.
func (b *Binder) Refresh(ctx context.Context) error {
	groups, events, err := b.source.Snapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "taking roster snapshot")
	}
	b.Resync(groups, events)
	return nil
}

// Request asks for a resync. Inside a Batch it is deferred to the end of the batch.
// Meant to be subscribed to the stores.
func (b *Binder) Request() {
	if atomic.LoadInt32(&b.depth) > 0 {
		atomic.StoreInt32(&b.pending, 1)
		return
	}
	if err := b.Refresh(context.Background()); err != nil {
		b.logger.Error("roster: resync failed", err)
	}
}

// Batch runs fn and resyncs exactly once afterwards, however many changes fn made.
// When fn fails without changing anything, no resync happens.
func (b *Binder) Batch(fn func() error) error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	atomic.AddInt32(&b.depth, 1)
	err := fn()
	atomic.AddInt32(&b.depth, -1)

	if err == nil || atomic.SwapInt32(&b.pending, 0) == 1 {
		atomic.StoreInt32(&b.pending, 0)
		if rErr := b.Refresh(context.Background()); rErr != nil {
			b.logger.Error("roster: resync failed", rErr)
			if err == nil {
				err = rErr
			}
		}
	}
	return err
}

// StoreSource snapshots the group and event stores.
type StoreSource struct {
	Groups *group.Store
	Events *calendar.Store
}

func (src StoreSource) Snapshot(ctx context.Context) ([]group.Group, []calendar.Event, error) {
	groups, err := src.Groups.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return groups, src.Events.All(), nil
}

func keepKnown(values []string, known map[string]struct{}) []string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := known[v]; ok {
			kept = append(kept, v)
		}
	}
	return kept
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func copyView(v View) View {
	cp := View{
		Selects:           make(map[string]Select, len(v.Selects)),
		EventGroups:       append([]Checkbox{}, v.EventGroups...),
		AttendancePreview: append([]Badge{}, v.AttendancePreview...),
		Calendars:         make(map[string][]CalendarItem, len(v.Calendars)),
		CalendarFilter:    append([]string{}, v.CalendarFilter...),
	}
	for id, sel := range v.Selects {
		sel.Options = append([]Option{}, sel.Options...)
		cp.Selects[id] = sel
	}
	for id, items := range v.Calendars {
		cp.Calendars[id] = append([]CalendarItem{}, items...)
	}
	return cp
}
