package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/classroom/core/group"
)

type groupRepository struct {
	coll *mongo.Collection
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *mongo.Database) group.Repository {
	return &groupRepository{coll: db.Collection(groupsColl)}
}

func (repo *groupRepository) CreateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	if _, err := repo.coll.InsertOne(ctx, grp); err != nil {
		return group.Group{}, errors.Wrap(err, "inserting group")
	}
	return grp, nil
}

// QueryGroups returns groups in creation order. Ids are numeric strings, so the store sorts them again.
func (repo *groupRepository) QueryGroups(ctx context.Context) ([]group.Group, error) {
	groups, err := findAll[group.Group](ctx, repo.coll, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	return groups, nil
}

func (repo *groupRepository) GetGroup(ctx context.Context, id string) (group.Group, error) {
	var grp group.Group
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&grp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return group.Group{}, group.ErrNotFound
	}
	if err != nil {
		return group.Group{}, errors.Wrap(err, "getting group")
	}
	return grp, nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, grp group.Group) (group.Group, error) {
	var updated group.Group
	err := setFields(ctx, repo.coll, grp.ID, bson.D{
		{Key: "name", Value: grp.Name},
		{Key: "description", Value: grp.Description},
		{Key: "color", Value: grp.Color},
		{Key: "student_count", Value: grp.StudentCount},
	}, &updated, group.ErrNotFound)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	return updated, nil
}

func (repo *groupRepository) DeleteGroup(ctx context.Context, id string) error {
	return errors.Wrap(deleteByID(ctx, repo.coll, id, group.ErrNotFound), "deleting group")
}
