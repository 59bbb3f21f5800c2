package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/homework"
)

const homeworkColumns = `id, title, description, group_id, due_date, status, submissions, created_by, created_at`

type homeworkRow struct {
	ID          string                            `db:"id"`
	Title       string                            `db:"title"`
	Description string                            `db:"description"`
	GroupID     string                            `db:"group_id"`
	DueDate     time.Time                         `db:"due_date"`
	Status      string                            `db:"status"`
	Submissions jsonColumn[[]homework.Submission] `db:"submissions"`
	CreatedBy   string                            `db:"created_by"`
	CreatedAt   time.Time                         `db:"created_at"`
}

func (r homeworkRow) homework() homework.Homework {
	subs := r.Submissions.V
	if subs == nil {
		subs = []homework.Submission{}
	}
	return homework.Homework{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		GroupID:     r.GroupID,
		DueDate:     r.DueDate.UTC(),
		Status:      r.Status,
		Submissions: subs,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type homeworkRepository struct {
	db *sqlx.DB
}

var _ homework.Repository = (*homeworkRepository)(nil)

func NewHomeworkRepository(db *sqlx.DB) homework.Repository {
	return &homeworkRepository{db: db}
}

func (repo *homeworkRepository) CreateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	hw.ID = uuid.New().String()
	if hw.Submissions == nil {
		hw.Submissions = []homework.Submission{}
	}
	q := `INSERT INTO homework (` + homeworkColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, q, hw.ID, hw.Title, hw.Description, hw.GroupID, hw.DueDate, hw.Status,
		jsonColumn[[]homework.Submission]{V: hw.Submissions}, hw.CreatedBy, hw.CreatedAt)
	if err != nil {
		return homework.Homework{}, errors.Wrap(err, "inserting homework")
	}
	return hw, nil
}

func (repo *homeworkRepository) QueryHomework(ctx context.Context) ([]homework.Homework, error) {
	var rows []homeworkRow
	q := `SELECT ` + homeworkColumns + ` FROM homework ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying homework")
	}
	hws := make([]homework.Homework, 0, len(rows))
	for _, r := range rows {
		hws = append(hws, r.homework())
	}
	return hws, nil
}

func (repo *homeworkRepository) GetHomework(ctx context.Context, id string) (homework.Homework, error) {
	var row homeworkRow
	q := `SELECT ` + homeworkColumns + ` FROM homework WHERE id = $1`
	if err := getOne(ctx, repo.db, &row, homework.ErrNotFound, q, id); err != nil {
		return homework.Homework{}, errors.Wrap(err, "getting homework")
	}
	return row.homework(), nil
}

func (repo *homeworkRepository) UpdateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	var row homeworkRow
	q := `UPDATE homework SET title = $2, description = $3, group_id = $4 WHERE id = $1 RETURNING ` + homeworkColumns
	if err := getOne(ctx, repo.db, &row, homework.ErrNotFound, q, hw.ID, hw.Title, hw.Description, hw.GroupID); err != nil {
		return homework.Homework{}, errors.Wrap(err, "updating homework")
	}
	return row.homework(), nil
}

func (repo *homeworkRepository) DeleteHomework(ctx context.Context, id string) error {
	err := execOne(ctx, repo.db, homework.ErrNotFound, `DELETE FROM homework WHERE id = $1`, id)
	return errors.Wrap(err, "deleting homework")
}
