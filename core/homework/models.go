package homework

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
)

const (
	// AllGroups is the group id of homework assigned to every group.
	AllGroups      = "all"
	AllGroupsLabel = "All Groups"

	StatusPending = "pending"

	// DueIn is the fixed offset between assignment and due date.
	DueIn = 7 * 24 * time.Hour
)

type Submission struct {
	StudentID      string    `json:"student" bson:"student"`
	Completed      bool      `json:"completed" bson:"completed"`
	SubmissionDate time.Time `json:"submissionDate" bson:"submission_date"`
	Notes          string    `json:"notes" bson:"notes"`
}

type Homework struct {
	ID          string       `json:"id" bson:"_id"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	GroupID     string       `json:"group" bson:"group"`
	DueDate     time.Time    `json:"dueDate" bson:"due_date"`
	Status      string       `json:"status" bson:"status"`
	Submissions []Submission `json:"submissions" bson:"submissions"`
	CreatedBy   string       `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time    `json:"date" bson:"date"` // UTC
}

// GroupLabel returns the group name to display, "All Groups" for the sentinel.
func (hw Homework) GroupLabel(names map[string]string) string {
	if hw.GroupID == AllGroups {
		return AllGroupsLabel
	}
	if name, ok := names[hw.GroupID]; ok {
		return name
	}
	return hw.GroupID
}

// NewHomework contains information needed to assign homework. An empty group means all groups.
type NewHomework struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	GroupID     string `json:"group"`
	CreatedBy   string `json:"createdBy"`
}

func (nh *NewHomework) Validate(validate *validator.Validate) error {
	nh.Title = core.CleanString(nh.Title)
	nh.Description = core.CleanString(nh.Description)
	nh.GroupID = core.CleanString(nh.GroupID)
	nh.CreatedBy = core.CleanString(nh.CreatedBy)
	if nh.GroupID == "" {
		nh.GroupID = AllGroups
	}
	return validate.Struct(nh)
}

// UpdateHomework defines what information may be provided to modify assigned homework.
// The due date and status are kept.
type UpdateHomework struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description"`
	GroupID     string `json:"group"`
}

func (uh *UpdateHomework) Validate(validate *validator.Validate) error {
	uh.Title = core.CleanString(uh.Title)
	uh.Description = core.CleanString(uh.Description)
	uh.GroupID = core.CleanString(uh.GroupID)
	if uh.GroupID == "" {
		uh.GroupID = AllGroups
	}
	return validate.Struct(uh)
}
