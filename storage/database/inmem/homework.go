package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/classroom/core/homework"
)

type homeworkRepository struct {
	db *homeworkTable
}

var _ homework.Repository = (*homeworkRepository)(nil)

func NewHomeworkRepository(db *DB) homework.Repository {
	return &homeworkRepository{db: db.homework}
}

func (repo *homeworkRepository) CreateHomework(_ context.Context, hw homework.Homework) (homework.Homework, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	hw.ID = uuid.New().String()
	repo.db.table[hw.ID] = &hw
	repo.db.order = append(repo.db.order, hw.ID)
	return hw, nil
}

func (repo *homeworkRepository) QueryHomework(context.Context) ([]homework.Homework, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	hws := make([]homework.Homework, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		hws = append(hws, *repo.db.table[id])
	}
	return hws, nil
}

func (repo *homeworkRepository) GetHomework(_ context.Context, id string) (homework.Homework, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if hw, ok := repo.db.table[id]; ok {
		return *hw, nil
	}
	return homework.Homework{}, homework.ErrNotFound
}

func (repo *homeworkRepository) UpdateHomework(_ context.Context, hw homework.Homework) (homework.Homework, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[hw.ID]
	if !ok {
		return homework.Homework{}, homework.ErrNotFound
	}
	updated := *orig
	updated.Title = hw.Title
	updated.Description = hw.Description
	updated.GroupID = hw.GroupID
	repo.db.table[hw.ID] = &updated
	return updated, nil
}

func (repo *homeworkRepository) DeleteHomework(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return homework.ErrNotFound
	}
	delete(repo.db.table, id)
	repo.db.order = removeID(repo.db.order, id)
	return nil
}
