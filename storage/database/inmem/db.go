package inmemdb

import (
	"sync"

	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/student"
)

type (
	// DB keeps every record in memory. Tables keep insertion order.
	DB struct {
		group      *groupTable
		event      *eventTable
		student    *studentTable
		homework   *homeworkTable
		attendance *attendanceTable
	}

	groupTable struct {
		mutex sync.RWMutex
		order []string
		table map[string]*group.Group
	}

	eventTable struct {
		mutex sync.RWMutex
		order []string
		table map[string]*calendar.Event
	}

	studentTable struct {
		mutex sync.RWMutex
		order []string
		table map[string]*student.Student
	}

	homeworkTable struct {
		mutex sync.RWMutex
		order []string
		table map[string]*homework.Homework
	}

	attendanceTable struct {
		mutex sync.RWMutex
		table map[string]*attendance.Attendance // key: groupID@date
	}
)

func Open() *DB {
	return &DB{
		group:      &groupTable{table: make(map[string]*group.Group)},
		event:      &eventTable{table: make(map[string]*calendar.Event)},
		student:    &studentTable{table: make(map[string]*student.Student)},
		homework:   &homeworkTable{table: make(map[string]*homework.Homework)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
	}
}

// removeID drops id from order, keeping the order of the others.
func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i:i], order[i+1:]...)
		}
	}
	return order
}
