package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/student"
)

var (
	ErrNotFound = errors.New("attendance not found")

	errGroupAndDate = errors.New("Please select a group and date")
)

type (
	Repository interface {
		// SaveAttendance creates or replaces the attendance of att.GroupID for att.Date.
		SaveAttendance(ctx context.Context, att Attendance) (Attendance, error)
		GetAttendance(ctx context.Context, groupID string, date time.Time) (Attendance, error)
	}

	Groups interface {
		Get(ctx context.Context, id string) (group.Group, error)
	}

	Students interface {
		InGroup(ctx context.Context, id string) ([]student.Student, error)
	}

	Service struct {
		repo     Repository
		groups   Groups
		students Students
		validate *validator.Validate
	}
)

func NewService(repo Repository, groups Groups, students Students, validate *validator.Validate) *Service {
	return &Service{repo: repo, groups: groups, students: students, validate: validate}
}

func (svc *Service) parseGroupAndDate(groupID, date string) (string, time.Time, error) {
	groupID = core.CleanString(groupID)
	date = core.CleanString(date)
	if groupID == "" || date == "" {
		return "", time.Time{}, core.NewValidationError(errGroupAndDate)
	}
	day, err := core.ParseDate(date)
	if err != nil {
		return "", time.Time{}, core.NewValidationError(nil, core.FieldError{Field: "date", Error: err.Error()})
	}
	return groupID, Day(day), nil
}

// Load stages the attendance sheet of a group for a date. Both are required.
func (svc *Service) Load(ctx context.Context, groupID, date string) (Sheet, error) {
	groupID, day, err := svc.parseGroupAndDate(groupID, date)
	if err != nil {
		return Sheet{}, err
	}
	grp, err := svc.groups.Get(ctx, groupID)
	if err != nil {
		return Sheet{}, err
	}
	members, err := svc.students.InGroup(ctx, groupID)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "querying group students")
	}

	recorded := make(map[string]Record)
	if att, err := svc.repo.GetAttendance(ctx, groupID, day); err == nil {
		for _, rec := range att.Records {
			recorded[rec.StudentID] = rec
		}
	} else if errors.Cause(err) != ErrNotFound {
		return Sheet{}, errors.Wrap(err, "getting attendance")
	}

	sheet := Sheet{Group: grp, Date: day, Rows: make([]SheetRow, 0, len(members))}
	for _, std := range members {
		rec := recorded[std.ID]
		sheet.Rows = append(sheet.Rows, SheetRow{
			StudentID:   std.ID,
			StudentName: std.Name,
			Present:     rec.Present,
			Notes:       rec.Notes,
		})
	}
	return sheet, nil
}

// Save records the attendance of a group for a date, replacing what was recorded before.
// Records must refer to students of the group.
func (svc *Service) Save(ctx context.Context, na NewAttendance) (Attendance, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Attendance{}, err
	}
	groupID, day, err := svc.parseGroupAndDate(na.GroupID, na.Date)
	if err != nil {
		return Attendance{}, err
	}
	if _, err = svc.groups.Get(ctx, groupID); err != nil {
		return Attendance{}, err
	}
	members, err := svc.students.InGroup(ctx, groupID)
	if err != nil {
		return Attendance{}, errors.Wrap(err, "querying group students")
	}
	inGroup := make(map[string]struct{}, len(members))
	for _, std := range members {
		inGroup[std.ID] = struct{}{}
	}
	for _, rec := range na.Records {
		if _, ok := inGroup[rec.StudentID]; !ok {
			return Attendance{}, core.NewLookupError("student", rec.StudentID)
		}
	}

	records := na.Records
	if records == nil {
		records = []Record{}
	}
	att, err := svc.repo.SaveAttendance(ctx, Attendance{
		GroupID:   groupID,
		Date:      day,
		Records:   records,
		CreatedBy: na.CreatedBy,
	})
	if err != nil {
		return Attendance{}, errors.Wrap(err, "saving attendance")
	}
	return att, nil
}

func (svc *Service) Get(ctx context.Context, groupID, date string) (Attendance, error) {
	groupID, day, err := svc.parseGroupAndDate(groupID, date)
	if err != nil {
		return Attendance{}, err
	}
	att, err := svc.repo.GetAttendance(ctx, groupID, day)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Attendance{}, core.NewLookupError("attendance", groupID+"@"+day.Format("2006-01-02"))
		}
		return Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return att, nil
}
