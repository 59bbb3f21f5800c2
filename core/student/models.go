package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
)

type Student struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	GroupIDs  []string  `json:"groups" bson:"groups"`
	CreatedAt time.Time `json:"date" bson:"date"` // UTC
}

func (s Student) InGroup(id string) bool {
	for _, gid := range s.GroupIDs {
		if gid == id {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to create a new Student.
// Group membership is only recorded at creation.
type NewStudent struct {
	Name     string   `json:"name" validate:"notblank"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone"`
	GroupIDs []string `json:"groups"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.GroupIDs = core.CleanStrings(ns.GroupIDs)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Phone = core.CleanString(us.Phone)
	return validate.Struct(us)
}
