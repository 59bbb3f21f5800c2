package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core/group"
)

const groupColumns = `id, name, description, color, student_count`

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	q := `INSERT INTO groups (` + groupColumns + `) VALUES (:id, :name, :description, :color, :student_count)`
	if _, err := repo.db.NamedExecContext(ctx, q, grp); err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return grp, nil
}

func (repo *groupRepository) QueryGroups(ctx context.Context) ([]group.Group, error) {
	groups := make([]group.Group, 0)
	q := `SELECT ` + groupColumns + ` FROM groups ORDER BY created_at, id`
	if err := repo.db.SelectContext(ctx, &groups, q); err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	return groups, nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, id string) (group.Group, error) {
	var grp group.Group
	q := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`
	if err := getOne(ctx, repo.db, &grp, group.ErrNotFound, q, id); err != nil {
		return group.Group{}, errors.Wrap(err, "getting group")
	}
	return grp, nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	q := `UPDATE groups SET name = $2, description = $3, color = $4, student_count = $5 WHERE id = $1`
	err := execOne(ctx, repo.db, group.ErrNotFound, q, grp.ID, grp.Name, grp.Description, grp.Color, grp.StudentCount)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	return grp, nil
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id string) error {
	return errors.Wrap(execOne(ctx, repo.db, group.ErrNotFound, `DELETE FROM groups WHERE id = $1`, id), "deleting group")
}
