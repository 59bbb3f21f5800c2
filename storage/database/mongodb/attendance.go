package mongorepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/classroom/core/attendance"
)

type attendanceRepository struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *mongo.Database) attendance.Repository {
	return &attendanceRepository{coll: db.Collection(attendanceColl)}
}

func (repo *attendanceRepository) SaveAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	att.Date = attendance.Day(att.Date)
	if att.Records == nil {
		att.Records = []attendance.Record{}
	}

	filter := bson.M{"group": att.GroupID, "date": att.Date}
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "records", Value: att.Records},
			{Key: "created_by", Value: att.CreatedBy},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "_id", Value: uuid.New().String()}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved attendance.Attendance
	if err := repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "saving attendance")
	}
	return saved, nil
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, groupID string, date time.Time) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := repo.coll.FindOne(ctx, bson.M{"group": groupID, "date": attendance.Day(date)}).Decode(&att)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return att, nil
}
