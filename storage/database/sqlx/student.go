package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/student"
)

const studentColumns = `id, name, email, phone, groups, created_at`

type studentRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Email     string         `db:"email"`
	Phone     string         `db:"phone"`
	GroupIDs  pq.StringArray `db:"groups"`
	CreatedAt time.Time      `db:"created_at"`
}

func (r studentRow) student() student.Student {
	groupIDs := []string(r.GroupIDs)
	if groupIDs == nil {
		groupIDs = []string{}
	}
	return student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		GroupIDs:  groupIDs,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	if std.GroupIDs == nil {
		std.GroupIDs = []string{}
	}
	q := `INSERT INTO students (` + studentColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q, std.ID, std.Name, std.Email, std.Phone, pq.Array(std.GroupIDs), std.CreatedAt)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	q := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	q := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	if err := getOne(ctx, repo.db, &row, student.ErrNotFound, q, id); err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.student(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	var row studentRow
	q := `UPDATE students SET name = $2, email = $3, phone = $4 WHERE id = $1 RETURNING ` + studentColumns
	if err := getOne(ctx, repo.db, &row, student.ErrNotFound, q, std.ID, std.Name, std.Email, std.Phone); err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return row.student(), nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	err := execOne(ctx, repo.db, student.ErrNotFound, `DELETE FROM students WHERE id = $1`, id)
	return errors.Wrap(err, "deleting student")
}
