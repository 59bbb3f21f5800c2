package group

import (
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
)

// DefaultColor is used when a group is saved without a color.
const DefaultColor = "#4361ee"

type Group struct {
	ID           string `json:"id" bson:"_id" db:"id"`
	Name         string `json:"name" bson:"name" db:"name"`
	Description  string `json:"description" bson:"description" db:"description"`
	Color        string `json:"color" bson:"color" db:"color"`
	StudentCount int    `json:"studentCount" bson:"student_count" db:"student_count"`
}

// seq returns the numeric value of the group id, 0 if it is not numeric.
func (g Group) seq() int {
	n, err := strconv.Atoi(g.ID)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

func (ng *NewGroup) Validate(validate *validator.Validate) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Description = core.CleanString(ng.Description)
	ng.Color = core.CleanString(ng.Color, true /* lower */)
	if err := validate.Struct(ng); err != nil {
		return err
	}
	if ng.Color == "" {
		ng.Color = DefaultColor
	}
	return nil
}

// UpdateGroup defines what information may be provided to modify an existing Group.
// ID and StudentCount are never changed by an update.
type UpdateGroup struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
}

func (ug *UpdateGroup) Validate(validate *validator.Validate) error {
	ug.Name = core.CleanString(ug.Name)
	ug.Description = core.CleanString(ug.Description)
	ug.Color = core.CleanString(ug.Color, true /* lower */)
	if err := validate.Struct(ug); err != nil {
		return err
	}
	if ug.Color == "" {
		ug.Color = DefaultColor
	}
	return nil
}

// Names maps group ids to group names.
func Names(groups []Group) map[string]string {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names
}

// Index maps group ids to groups.
func Index(groups []Group) map[string]Group {
	idx := make(map[string]Group, len(groups))
	for _, g := range groups {
		idx[g.ID] = g
	}
	return idx
}
