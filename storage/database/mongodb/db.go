package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	groupsColl     = "groups"
	eventsColl     = "calendar_events"
	studentsColl   = "students"
	homeworkColl   = "homework"
	attendanceColl = "attendance"
)

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(attendanceColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "group", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "creating attendance index")
	}

	for _, coll := range []string{eventsColl, studentsColl, homeworkColl} {
		_, err = db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "date", Value: 1}},
		})
		if err != nil {
			return errors.Wrapf(err, "creating %s index", coll)
		}
	}
	return nil
}

// byCreation sorts documents by creation date, oldest first.
func byCreation() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.D{}, opts...)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// setFields overwrites fields of the document with the given id, returning notFound when it does not exist.
func setFields(ctx context.Context, coll *mongo.Collection, id string, fields bson.D, out any, notFound error) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.D{{Key: "$set", Value: fields}}, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
