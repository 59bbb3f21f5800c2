package mongorepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/classroom/core/student"
)

type studentRepository struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{coll: db.Collection(studentsColl)}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	if std.GroupIDs == nil {
		std.GroupIDs = []string{}
	}
	if _, err := repo.coll.InsertOne(ctx, std); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	students, err := findAll[student.Student](ctx, repo.coll, byCreation())
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var std student.Student
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&std)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return std, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	var updated student.Student
	err := setFields(ctx, repo.coll, std.ID, bson.D{
		{Key: "name", Value: std.Name},
		{Key: "email", Value: std.Email},
		{Key: "phone", Value: std.Phone},
	}, &updated, student.ErrNotFound)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return updated, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	return errors.Wrap(deleteByID(ctx, repo.coll, id, student.ErrNotFound), "deleting student")
}
