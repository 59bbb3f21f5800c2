package calendar

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
)

// DefaultColor is the background of events attached to zero or several groups.
const DefaultColor = "#6c757d"

type Event struct {
	ID              string    `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Description     string    `json:"description" bson:"description"`
	Start           time.Time `json:"startDate" bson:"start_date"`
	End             time.Time `json:"endDate" bson:"end_date"`
	GroupIDs        []string  `json:"groups" bson:"groups"`
	BackgroundColor string    `json:"backgroundColor" bson:"background_color"`
	CreatedBy       string    `json:"createdBy" bson:"created_by"`
	CreatedAt       time.Time `json:"date" bson:"date"` // UTC
}

// InAnyGroup reports whether the event is attached to one of ids.
func (ev Event) InAnyGroup(ids map[string]struct{}) bool {
	for _, gid := range ev.GroupIDs {
		if _, ok := ids[gid]; ok {
			return true
		}
	}
	return false
}

// ColorFor derives an event color: the color of its single group, DefaultColor otherwise.
func ColorFor(groupIDs []string, groups map[string]group.Group) string {
	if len(groupIDs) != 1 {
		return DefaultColor
	}
	if grp, ok := groups[groupIDs[0]]; ok && grp.Color != "" {
		return grp.Color
	}
	return DefaultColor
}

// NewEvent contains information needed to create calendar events.
// Start and End accept the formats understood by core.ParseDate.
type NewEvent struct {
	Title       string   `json:"title" validate:"notblank"`
	Description string   `json:"description"`
	Start       string   `json:"startDate" validate:"notblank,date_"`
	End         string   `json:"endDate" validate:"notblank,date_"`
	GroupIDs    []string `json:"groups"`
	CreatedBy   string   `json:"createdBy"`

	start, end time.Time
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Description = core.CleanString(ne.Description)
	ne.Start = core.CleanString(ne.Start)
	ne.End = core.CleanString(ne.End)
	ne.GroupIDs = core.CleanStrings(ne.GroupIDs)
	ne.CreatedBy = core.CleanString(ne.CreatedBy)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	ne.start, _ = core.ParseDate(ne.Start)
	ne.end, _ = core.ParseDate(ne.End)
	return nil
}

// Event builds the event record as given, without fanning out. Validate must be called first.
func (ne NewEvent) Event(color string) Event {
	return Event{
		Title:           ne.Title,
		Description:     ne.Description,
		Start:           ne.start,
		End:             ne.end,
		GroupIDs:        ne.GroupIDs,
		BackgroundColor: color,
		CreatedBy:       ne.CreatedBy,
		CreatedAt:       time.Now().UTC(),
	}
}

// UpdateEvent defines what may be changed on a single (already fanned-out) event.
// Groups and color are kept.
type UpdateEvent struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	Start       string `json:"startDate" validate:"notblank,date_"`
	End         string `json:"endDate" validate:"notblank,date_"`

	start, end time.Time
}

func (ue *UpdateEvent) Validate(validate *validator.Validate) error {
	ue.Title = core.CleanString(ue.Title)
	ue.Description = core.CleanString(ue.Description)
	ue.Start = core.CleanString(ue.Start)
	ue.End = core.CleanString(ue.End)

	if err := validate.Struct(ue); err != nil {
		return err
	}
	ue.start, _ = core.ParseDate(ue.Start)
	ue.end, _ = core.ParseDate(ue.End)
	return nil
}
