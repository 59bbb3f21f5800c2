package mongorepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/classroom/core/homework"
)

type homeworkRepository struct {
	coll *mongo.Collection
}

var _ homework.Repository = (*homeworkRepository)(nil)

func NewHomeworkRepository(db *mongo.Database) homework.Repository {
	return &homeworkRepository{coll: db.Collection(homeworkColl)}
}

func (repo *homeworkRepository) CreateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	hw.ID = uuid.New().String()
	if hw.Submissions == nil {
		hw.Submissions = []homework.Submission{}
	}
	if _, err := repo.coll.InsertOne(ctx, hw); err != nil {
		return homework.Homework{}, errors.Wrap(err, "inserting homework")
	}
	return hw, nil
}

func (repo *homeworkRepository) QueryHomework(ctx context.Context) ([]homework.Homework, error) {
	hws, err := findAll[homework.Homework](ctx, repo.coll, byCreation())
	if err != nil {
		return nil, errors.Wrap(err, "querying homework")
	}
	return hws, nil
}

func (repo *homeworkRepository) GetHomework(ctx context.Context, id string) (homework.Homework, error) {
	var hw homework.Homework
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&hw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return homework.Homework{}, homework.ErrNotFound
	}
	if err != nil {
		return homework.Homework{}, errors.Wrap(err, "getting homework")
	}
	return hw, nil
}

func (repo *homeworkRepository) UpdateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	var updated homework.Homework
	err := setFields(ctx, repo.coll, hw.ID, bson.D{
		{Key: "title", Value: hw.Title},
		{Key: "description", Value: hw.Description},
		{Key: "group", Value: hw.GroupID},
	}, &updated, homework.ErrNotFound)
	if err != nil {
		return homework.Homework{}, errors.Wrap(err, "updating homework")
	}
	return updated, nil
}

func (repo *homeworkRepository) DeleteHomework(ctx context.Context, id string) error {
	return errors.Wrap(deleteByID(ctx, repo.coll, id, homework.ErrNotFound), "deleting homework")
}
