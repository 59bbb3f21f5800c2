package inmemdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/classroom/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func attendanceKey(groupID string, date time.Time) string {
	return groupID + "@" + attendance.Day(date).Format("2006-01-02")
}

func (repo *attendanceRepository) SaveAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := attendanceKey(att.GroupID, att.Date)
	if orig, ok := repo.db.table[key]; ok {
		att.ID = orig.ID
	} else {
		att.ID = uuid.New().String()
	}
	att.Records = append([]attendance.Record{}, att.Records...)
	repo.db.table[key] = &att
	return att, nil
}

func (repo *attendanceRepository) GetAttendance(_ context.Context, groupID string, date time.Time) (attendance.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if att, ok := repo.db.table[attendanceKey(groupID, date)]; ok {
		return *att, nil
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}
