package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/classroom/core/calendar"
)

type eventRepository struct {
	db *eventTable
}

var _ calendar.Source = (*eventRepository)(nil)

func NewEventRepository(db *DB) calendar.Source {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) QueryEvents(context.Context) ([]calendar.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]calendar.Event, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		events = append(events, *repo.db.table[id])
	}
	return events, nil
}

func (repo *eventRepository) CreateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ev.ID = uuid.New().String()
	ev.GroupIDs = append([]string{}, ev.GroupIDs...)
	repo.db.table[ev.ID] = &ev
	repo.db.order = append(repo.db.order, ev.ID)
	return ev, nil
}

func (repo *eventRepository) UpdateEvent(_ context.Context, ev calendar.Event) (calendar.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[ev.ID]
	if !ok {
		return calendar.Event{}, calendar.ErrNotFound
	}
	updated := *orig
	updated.Title = ev.Title
	updated.Description = ev.Description
	updated.Start = ev.Start
	updated.End = ev.End
	repo.db.table[ev.ID] = &updated
	return updated, nil
}

func (repo *eventRepository) DeleteEvent(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return calendar.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.db.order = removeID(repo.db.order, id)
	return nil
}
