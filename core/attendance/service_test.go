package attendance_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	stack := testutil.NewStack(t)
	english := testutil.CreateGroup(t, stack.Groups, "English 101", "#4361ee")
	amani := testutil.CreateStudent(t, stack.Students, "Amani", english.ID)
	baraka := testutil.CreateStudent(t, stack.Students, "Baraka", english.ID)
	zawadi := testutil.CreateStudent(t, stack.Students, "Zawadi")

	t.Run("group and date are required", func(t *testing.T) {
		for _, args := range [][2]string{{"", "2024-03-04"}, {english.ID, ""}, {" ", " "}} {
			_, err := stack.Attendance.Load(ctx, args[0], args[1])
			var vErr *core.ValidationError
			require.True(t, errors.As(err, &vErr), "%v", args)
			assert.Equal(t, "Please select a group and date", vErr.Error())
		}
	})

	t.Run("empty sheet", func(t *testing.T) {
		sheet, err := stack.Attendance.Load(ctx, english.ID, "2024-03-04")
		require.NoError(t, err)
		assert.Equal(t, english.ID, sheet.Group.ID)
		assert.Equal(t, []attendance.SheetRow{
			{StudentID: amani.ID, StudentName: "Amani"},
			{StudentID: baraka.ID, StudentName: "Baraka"},
		}, sheet.Rows)
	})

	first, err := stack.Attendance.Save(ctx, attendance.NewAttendance{
		GroupID: english.ID,
		Date:    "2024-03-04T08:00",
		Records: []attendance.Record{{StudentID: amani.ID, Present: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Date.Hour(), "truncated to the day")

	second, err := stack.Attendance.Save(ctx, attendance.NewAttendance{
		GroupID: english.ID,
		Date:    "2024-03-04",
		Records: []attendance.Record{{StudentID: baraka.ID, Present: true, Notes: "late"}},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a second save replaces the first")

	sheet, err := stack.Attendance.Load(ctx, english.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, []attendance.SheetRow{
		{StudentID: amani.ID, StudentName: "Amani"},
		{StudentID: baraka.ID, StudentName: "Baraka", Present: true, Notes: "late"},
	}, sheet.Rows)

	_, err = stack.Attendance.Save(ctx, attendance.NewAttendance{
		GroupID: english.ID,
		Date:    "2024-03-05",
		Records: []attendance.Record{{StudentID: zawadi.ID}},
	})
	assert.True(t, core.IsLookup(err), "records must be students of the group")

	_, err = stack.Attendance.Save(ctx, attendance.NewAttendance{GroupID: "9", Date: "2024-03-05"})
	assert.True(t, core.IsLookup(err))

	_, err = stack.Attendance.Get(ctx, english.ID, "2024-03-05")
	assert.EqualError(t, err, `attendance "1@2024-03-05" not found`)

	got, err := stack.Attendance.Get(ctx, english.ID, "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, second.Records, got.Records)
}
