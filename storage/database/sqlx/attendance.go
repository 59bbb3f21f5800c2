package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/attendance"
)

const attendanceColumns = `id, group_id, date, records, created_by`

type attendanceRow struct {
	ID        string                          `db:"id"`
	GroupID   string                          `db:"group_id"`
	Date      time.Time                       `db:"date"`
	Records   jsonColumn[[]attendance.Record] `db:"records"`
	CreatedBy string                          `db:"created_by"`
}

func (r attendanceRow) attendance() attendance.Attendance {
	records := r.Records.V
	if records == nil {
		records = []attendance.Record{}
	}
	return attendance.Attendance{
		ID:        r.ID,
		GroupID:   r.GroupID,
		Date:      attendance.Day(r.Date),
		Records:   records,
		CreatedBy: r.CreatedBy,
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) SaveAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.Records == nil {
		att.Records = []attendance.Record{}
	}
	var row attendanceRow
	q := `INSERT INTO attendance (` + attendanceColumns + `) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (group_id, date) DO UPDATE SET records = EXCLUDED.records, created_by = EXCLUDED.created_by
		RETURNING ` + attendanceColumns
	err := repo.db.GetContext(ctx, &row, q, uuid.New().String(), att.GroupID, attendance.Day(att.Date),
		jsonColumn[[]attendance.Record]{V: att.Records}, att.CreatedBy)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "saving attendance")
	}
	return row.attendance(), nil
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, groupID string, date time.Time) (attendance.Attendance, error) {
	var row attendanceRow
	q := `SELECT ` + attendanceColumns + ` FROM attendance WHERE group_id = $1 AND date = $2`
	if err := getOne(ctx, repo.db, &row, attendance.ErrNotFound, q, groupID, attendance.Day(date)); err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return row.attendance(), nil
}
