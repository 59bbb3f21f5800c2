package testutil

import (
	"context"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/student"
	inmemdb "github.com/trezcool/classroom/storage/database/inmem"
)

// Stack is every store and service wired on an in-memory database.
type Stack struct {
	DB         *inmemdb.DB
	Validate   *validator.Validate
	Translator ut.Translator

	Groups     *group.Store
	Events     *calendar.Store
	Students   *student.Service
	Homework   *homework.Service
	Attendance *attendance.Service
}

// NewStack wires the stores. Events are persisted to source when given, to the in-memory database otherwise.
func NewStack(t *testing.T, source ...calendar.Source) *Stack {
	t.Helper()

	db := inmemdb.Open()
	validate, translator := core.NewValidator()

	var src calendar.Source = inmemdb.NewEventRepository(db)
	if len(source) > 0 {
		src = source[0]
	}

	st := &Stack{DB: db, Validate: validate, Translator: translator}
	st.Groups = group.NewStore(inmemdb.NewGroupRepository(db), validate)
	st.Events = calendar.NewStore(src, st.Groups, validate, core.NopLogger{})
	st.Students = student.NewService(inmemdb.NewStudentRepository(db), st.Groups, validate)
	st.Homework = homework.NewService(inmemdb.NewHomeworkRepository(db), st.Groups, validate)
	st.Attendance = attendance.NewService(inmemdb.NewAttendanceRepository(db), st.Groups, st.Students, validate)
	return st
}

func CreateGroup(t *testing.T, store *group.Store, name, color string) group.Group {
	t.Helper()
	grp, err := store.Create(context.Background(), group.NewGroup{Name: name, Color: color})
	if err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return grp
}

func CreateStudent(t *testing.T, svc *student.Service, name string, groupIDs ...string) student.Student {
	t.Helper()
	std, err := svc.Create(context.Background(), student.NewStudent{Name: name, GroupIDs: groupIDs})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateEvents(t *testing.T, store *calendar.Store, title, start, end string, groupIDs ...string) []calendar.Event {
	t.Helper()
	events, err := store.Create(context.Background(), calendar.NewEvent{
		Title:    title,
		Start:    start,
		End:      end,
		GroupIDs: groupIDs,
	})
	if err != nil {
		t.Fatalf("CreateEvents() failed: %v", err)
	}
	return events
}
