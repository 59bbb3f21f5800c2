package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
)

type Record struct {
	StudentID string `json:"student" bson:"student"`
	Present   bool   `json:"present" bson:"present"`
	Notes     string `json:"notes" bson:"notes"`
}

type Attendance struct {
	ID        string    `json:"id" bson:"_id"`
	GroupID   string    `json:"group" bson:"group"`
	Date      time.Time `json:"date" bson:"date"` // UTC, truncated to the day
	Records   []Record  `json:"records" bson:"records"`
	CreatedBy string    `json:"createdBy" bson:"created_by"`
}

// SheetRow is one student line of an attendance sheet.
type SheetRow struct {
	StudentID   string `json:"student"`
	StudentName string `json:"studentName"`
	Present     bool   `json:"present"`
	Notes       string `json:"notes"`
}

// Sheet is the staging view of a group's attendance for a date: every student of the group,
// prefilled with what was already recorded.
type Sheet struct {
	Group group.Group `json:"group"`
	Date  time.Time   `json:"date"`
	Rows  []SheetRow  `json:"rows"`
}

// NewAttendance contains the records to save for a group and date.
type NewAttendance struct {
	GroupID   string   `json:"group" validate:"notblank"`
	Date      string   `json:"date" validate:"notblank,date_"`
	Records   []Record `json:"records" validate:"dive"`
	CreatedBy string   `json:"createdBy"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.GroupID = core.CleanString(na.GroupID)
	na.Date = core.CleanString(na.Date)
	na.CreatedBy = core.CleanString(na.CreatedBy)
	for i := range na.Records {
		na.Records[i].StudentID = core.CleanString(na.Records[i].StudentID)
		na.Records[i].Notes = core.CleanString(na.Records[i].Notes)
	}
	return validate.Struct(na)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
