package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/calendar"
)

const eventColumns = `id, title, description, start_date, end_date, groups, background_color, created_by, created_at`

type eventRow struct {
	ID              string         `db:"id"`
	Title           string         `db:"title"`
	Description     string         `db:"description"`
	Start           time.Time      `db:"start_date"`
	End             time.Time      `db:"end_date"`
	GroupIDs        pq.StringArray `db:"groups"`
	BackgroundColor string         `db:"background_color"`
	CreatedBy       string         `db:"created_by"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r eventRow) event() calendar.Event {
	groupIDs := []string(r.GroupIDs)
	if groupIDs == nil {
		groupIDs = []string{}
	}
	return calendar.Event{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Start:           r.Start.UTC(),
		End:             r.End.UTC(),
		GroupIDs:        groupIDs,
		BackgroundColor: r.BackgroundColor,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt.UTC(),
	}
}

type eventRepository struct {
	db *sqlx.DB
}

var _ calendar.Source = (*eventRepository)(nil)

func NewEventRepository(db *sqlx.DB) calendar.Source {
	return &eventRepository{db: db}
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]calendar.Event, error) {
	var rows []eventRow
	q := `SELECT ` + eventColumns + ` FROM calendar_events ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]calendar.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.event())
	}
	return events, nil
}

func (repo *eventRepository) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	ev.ID = uuid.New().String()
	if ev.GroupIDs == nil {
		ev.GroupIDs = []string{}
	}
	q := `INSERT INTO calendar_events (` + eventColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, q, ev.ID, ev.Title, ev.Description, ev.Start, ev.End,
		pq.Array(ev.GroupIDs), ev.BackgroundColor, ev.CreatedBy, ev.CreatedAt)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "inserting event")
	}
	return ev, nil
}

func (repo *eventRepository) UpdateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	var row eventRow
	q := `UPDATE calendar_events SET title = $2, description = $3, start_date = $4, end_date = $5
		WHERE id = $1 RETURNING ` + eventColumns
	err := getOne(ctx, repo.db, &row, calendar.ErrNotFound, q, ev.ID, ev.Title, ev.Description, ev.Start, ev.End)
	if err != nil {
		return calendar.Event{}, errors.Wrap(err, "updating event")
	}
	return row.event(), nil
}

func (repo *eventRepository) DeleteEvent(ctx context.Context, id string) error {
	err := execOne(ctx, repo.db, calendar.ErrNotFound, `DELETE FROM calendar_events WHERE id = $1`, id)
	return errors.Wrap(err, "deleting event")
}
