package mongorepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/classroom/core/calendar"
)

type eventRepository struct {
	coll *mongo.Collection
}

var _ calendar.Source = (*eventRepository)(nil)

func NewEventRepository(db *mongo.Database) calendar.Source {
	return &eventRepository{coll: db.Collection(eventsColl)}
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]calendar.Event, error) {
	events, err := findAll[calendar.Event](ctx, repo.coll, byCreation())
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	for i := range events {
		if events[i].GroupIDs == nil {
			events[i].GroupIDs = []string{}
		}
	}
	return events, nil
}

func (repo *eventRepository) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	ev.ID = uuid.New().String()
	if ev.GroupIDs == nil {
		ev.GroupIDs = []string{}
	}
	if _, err := repo.coll.InsertOne(ctx, ev); err != nil {
		return calendar.Event{}, errors.Wrap(err, "inserting event")
	}
	return ev, nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	var updated calendar.Event
	err := setFields(ctx, repo.coll, ev.ID, bson.D{
		{Key: "title", Value: ev.Title},
		{Key: "description", Value: ev.Description},
		{Key: "start_date", Value: ev.Start},
		{Key: "end_date", Value: ev.End},
	}, &updated, calendar.ErrNotFound)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	return updated, nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	return errors.Wrap(deleteByID(ctx, repo.coll, id, calendar.ErrNotFound), "deleting event")
}
