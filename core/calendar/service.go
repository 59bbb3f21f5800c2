package calendar

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
)

// ErrNotFound is returned by sources when an event id is unknown.
var ErrNotFound = errors.New("calendar event not found")

type (
	// Source is where events are persisted: a database repository or the remote calendar-events API.
	Source interface {
		QueryEvents(ctx context.Context) ([]Event, error)
		// CreateEvent persists ev as is and returns it with its id assigned.
		CreateEvent(ctx context.Context, ev Event) (Event, error)
		// UpdateEvent overwrites title, description, start and end.
		UpdateEvent(ctx context.Context, ev Event) (Event, error)
		DeleteEvent(ctx context.Context, id string) error
	}

	// Groups resolves group ids for fan-out and color derivation.
	Groups interface {
		Lookup(ctx context.Context, ids ...string) ([]group.Group, error)
	}

	// Store owns the calendar events. Filtering never removes events, it only narrows what is displayed.
	Store struct {
		source   Source
		groups   Groups
		validate *validator.Validate
		logger   core.Logger

		mu      sync.RWMutex
		events  []Event
		loads   uint64 // generation of the latest LoadRemote started
		applied uint64 // generation the event set was last loaded from

		subsMu    sync.RWMutex
		listeners []func()
	}
)

func NewStore(source Source, groups Groups, validate *validator.Validate, logger core.Logger) *Store {
	return &Store{
		source:   source,
		groups:   groups,
		validate: validate,
		logger:   logger,
	}
}

// Subscribe registers fn to be called after every change of the event set.
func (s *Store) Subscribe(fn func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.subsMu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.subsMu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// Create validates ne and persists it: one grey event when no group is selected,
// otherwise one event per group titled "<title> (<group name>)" and colored like its group.
// The event set only changes once every event is saved.
func (s *Store) Create(ctx context.Context, ne NewEvent) ([]Event, error) {
	if err := ne.Validate(s.validate); err != nil {
		return nil, err
	}
	groups, err := s.groups.Lookup(ctx, ne.GroupIDs...)
	if err != nil {
		return nil, errors.Wrap(err, "looking up event groups")
	}

	created := make([]Event, 0, len(groups)+1)
	for _, ev := range FanOut(ne, groups) {
		saved, err := s.source.CreateEvent(ctx, ev)
		if err != nil {
			return nil, errors.Wrap(err, "saving calendar event")
		}
		created = append(created, saved)
	}

	s.mu.Lock()
	s.events = append(s.events, created...)
	s.mu.Unlock()

	s.notify()
	return created, nil
}

// FanOut splits a validated NewEvent into one event per group.
func FanOut(ne NewEvent, groups []group.Group) []Event {
	if len(groups) == 0 {
		ev := ne.Event(DefaultColor)
		ev.GroupIDs = []string{}
		return []Event{ev}
	}
	events := make([]Event, 0, len(groups))
	for _, grp := range groups {
		ev := ne.Event(grp.Color)
		if ev.BackgroundColor == "" {
			ev.BackgroundColor = DefaultColor
		}
		ev.Title = ne.Title + " (" + grp.Name + ")"
		ev.GroupIDs = []string{grp.ID}
		events = append(events, ev)
	}
	return events
}

// Put persists ne as a single event without fanning it out. Its color is the color of its single
// group, DefaultColor when it has none or several.
func (s *Store) Put(ctx context.Context, ne NewEvent) (Event, error) {
	if err := ne.Validate(s.validate); err != nil {
		return Event{}, err
	}
	groups, err := s.groups.Lookup(ctx, ne.GroupIDs...)
	if err != nil {
		return Event{}, errors.Wrap(err, "looking up event groups")
	}

	ev := ne.Event(ColorFor(ne.GroupIDs, group.Index(groups)))
	if ev.GroupIDs == nil {
		ev.GroupIDs = []string{}
	}
	saved, err := s.source.CreateEvent(ctx, ev)
	if err != nil {
		return Event{}, errors.Wrap(err, "saving calendar event")
	}

	s.mu.Lock()
	s.events = append(s.events, saved)
	s.mu.Unlock()

	s.notify()
	return saved, nil
}

// Get returns the event `id` from the event set.
func (s *Store) Get(id string) (Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ev := range s.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return Event{}, core.NewLookupError("calendar event", id)
}

// Update changes title, description and dates of a single event.
func (s *Store) Update(ctx context.Context, id string, ue UpdateEvent) (Event, error) {
	if err := ue.Validate(s.validate); err != nil {
		return Event{}, err
	}
	ev, err := s.Get(id)
	if err != nil {
		return Event{}, err
	}
	ev.Title = ue.Title
	ev.Description = ue.Description
	ev.Start = ue.start
	ev.End = ue.end
	saved, err := s.source.UpdateEvent(ctx, ev)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Event{}, core.NewLookupError("calendar event", id)
		}
		return Event{}, errors.Wrap(err, "updating calendar event")
	}

	s.mu.Lock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i] = saved
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return saved, nil
}

// Delete removes the event from the source and the event set.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.source.DeleteEvent(ctx, id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewLookupError("calendar event", id)
		}
		return errors.Wrap(err, "deleting calendar event")
	}

	s.mu.Lock()
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i:i], s.events[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// All returns a copy of every event in the set.
func (s *Store) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// FilterByGroups returns every event when selected is empty, otherwise the events attached to
// at least one of the selected groups. The event set is left untouched.
// A selected id that is not a known group is reported as a *core.LookupError.
func (s *Store) FilterByGroups(ctx context.Context, selected []string) ([]Event, error) {
	selected = core.CleanStrings(selected)
	if len(selected) > 0 {
		if _, err := s.groups.Lookup(ctx, selected...); err != nil {
			return nil, err
		}
	}
	return Filter(s.All(), selected), nil
}

// Filter is the display filter behind Store.FilterByGroups.
func Filter(events []Event, selected []string) []Event {
	if len(selected) == 0 {
		return events
	}
	ids := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		ids[id] = struct{}{}
	}
	filtered := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.InAnyGroup(ids) {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}

// LoadRemote fetches the events from the source and replaces the event set with them.
// On failure the error is logged and returned as a *core.RemoteFetchError along with zero events;
// the event set is left as it was.
// A load whose context is done by the time the source answers returns the context error and
// changes nothing. A load that finishes after a newer one never overwrites it.
func (s *Store) LoadRemote(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	s.loads++
	gen := s.loads
	s.mu.Unlock()

	events, err := s.source.QueryEvents(ctx)
	if err != nil {
		if !core.IsRemoteFetch(err) {
			err = core.NewRemoteFetchError("loading calendar events", err)
		}
		if ctx.Err() == nil { // cancelled loads are superseded, not failed
			s.logger.Error("calendar: failed to load events", err)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []Event{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.applied {
		return append([]Event{}, s.events...), nil
	}
	s.events = make([]Event, len(events))
	copy(s.events, events)
	s.applied = gen
	return events, nil
}
