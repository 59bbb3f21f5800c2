package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core/attendance"
	"github.com/trezcool/classroom/core/group"
	"github.com/trezcool/classroom/core/homework"
	"github.com/trezcool/classroom/core/student"
	"github.com/trezcool/classroom/tests"
)

func TestGroupAPI(t *testing.T) {
	a := setup(t)

	runHttpTests(t, a, []httpTest{
		{
			name:     "create invalid",
			method:   http.MethodPost,
			path:     "/api/groups",
			body:     []byte(`{"name": "  ", "color": "blue"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required", "color": "must be a hex color (eg. #4361ee)"}`),
		},
		{
			name:     "create",
			method:   http.MethodPost,
			path:     "/api/groups",
			body:     []byte(`{"name": " English 101 ", "color": "#4361EE"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id": "1", "name": "English 101", "description": "", "color": "#4361ee", "studentCount": 0}`),
		},
		{
			name:     "create default color",
			method:   http.MethodPost,
			path:     "/api/groups",
			body:     []byte(`{"name": "Math", "description": "algebra"}`),
			wantCode: http.StatusCreated,
			wantData: []byte(`{"id": "2", "name": "Math", "description": "algebra", "color": "#4361ee", "studentCount": 0}`),
		},
		{
			name:     "list",
			method:   http.MethodGet,
			path:     "/api/groups",
			wantCode: http.StatusOK,
			wantData: []byte(`[
				{"id": "1", "name": "English 101", "description": "", "color": "#4361ee", "studentCount": 0},
				{"id": "2", "name": "Math", "description": "algebra", "color": "#4361ee", "studentCount": 0}
			]`),
		},
		{
			name:     "get unknown",
			method:   http.MethodGet,
			path:     "/api/groups/9",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: `group "9" not found`}),
		},
		{
			name:     "update unknown",
			method:   http.MethodPut,
			path:     "/api/groups/9",
			body:     []byte(`{"name": "Physics"}`),
			wantCode: http.StatusNotFound,
		},
		{name: "delete", method: http.MethodDelete, path: "/api/groups/1", wantCode: http.StatusNoContent},
		{name: "delete unknown", method: http.MethodDelete, path: "/api/groups/1", wantCode: http.StatusNotFound},
	})

	t.Run("ids keep increasing after a delete", func(t *testing.T) {
		rec := do(t, a, http.MethodPost, "/api/groups", []byte(`{"name": "Physics"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
		var grp group.Group
		unmarshall(t, rec, &grp)
		assert.Equal(t, "3", grp.ID)
	})
}

func TestGroupAPI_updateKeepsStudentCount(t *testing.T) {
	a := setup(t)
	grp := testutil.CreateGroup(t, a.stack.Groups, "English 101", "#4361ee")
	testutil.CreateStudent(t, a.stack.Students, "Amani", grp.ID)

	rec := do(t, a, http.MethodPut, "/api/groups/"+grp.ID, []byte(`{"name": "English 102", "color": "#000000"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated group.Group
	unmarshall(t, rec, &updated)
	assert.Equal(t, group.Group{ID: grp.ID, Name: "English 102", Color: "#000000", StudentCount: 1}, updated)

	view := a.binder.View()
	require.Len(t, view.AttendancePreview, 1)
	assert.Equal(t, "English 102", view.AttendancePreview[0].Name)
	assert.Equal(t, "1 students", view.AttendancePreview[0].Label)
}

func TestStudentAPI(t *testing.T) {
	a := setup(t)
	english := testutil.CreateGroup(t, a.stack.Groups, "English 101", "#4361ee")
	math := testutil.CreateGroup(t, a.stack.Groups, "Math", "#f72585")

	runHttpTests(t, a, []httpTest{
		{
			name:     "create invalid",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     []byte(`{"name": "", "email": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"name": "this field is required", "email": "email must be a valid email address"}`),
		},
		{
			name:     "create unknown group",
			method:   http.MethodPost,
			path:     "/api/students",
			body:     []byte(`{"name": "Amani", "groups": ["9"]}`),
			wantCode: http.StatusNotFound,
		},
	})

	rec := do(t, a, http.MethodPost, "/api/students", marshallObj(t, student.NewStudent{
		Name:     "Baraka",
		Email:    "baraka@example.com",
		GroupIDs: []string{english.ID, math.ID},
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var baraka student.Student
	unmarshall(t, rec, &baraka)
	assert.NotEmpty(t, baraka.ID)
	assert.Equal(t, []string{english.ID, math.ID}, baraka.GroupIDs)

	testutil.CreateStudent(t, a.stack.Students, "Zawadi", math.ID)

	for _, tc := range []struct {
		id   string
		want int
	}{{english.ID, 1}, {math.ID, 2}} {
		grp, err := a.stack.Groups.Get(context.Background(), tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.want, grp.StudentCount, "group %s", tc.id)
	}

	rec = do(t, a, http.MethodGet, "/api/students?group="+math.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var inMath []student.Student
	unmarshall(t, rec, &inMath)
	assert.Len(t, inMath, 2)

	rec = do(t, a, http.MethodGet, "/api/students?group="+english.ID)
	var inEnglish []student.Student
	unmarshall(t, rec, &inEnglish)
	require.Len(t, inEnglish, 1)
	assert.Equal(t, "Baraka", inEnglish[0].Name)

	rec = do(t, a, http.MethodPut, "/api/students/"+baraka.ID, []byte(`{"name": "Baraka O.", "phone": "0700"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated student.Student
	unmarshall(t, rec, &updated)
	assert.Equal(t, "Baraka O.", updated.Name)
	assert.Equal(t, "0700", updated.Phone)
	assert.Equal(t, baraka.GroupIDs, updated.GroupIDs)

	runHttpTests(t, a, []httpTest{
		{name: "delete", method: http.MethodDelete, path: "/api/students/" + baraka.ID, wantCode: http.StatusNoContent},
		{name: "get deleted", method: http.MethodGet, path: "/api/students/" + baraka.ID, wantCode: http.StatusNotFound},
	})
}

func TestHomeworkAPI(t *testing.T) {
	a := setup(t)
	math := testutil.CreateGroup(t, a.stack.Groups, "Math", "#f72585")

	runHttpTests(t, a, []httpTest{
		{
			name:     "missing title",
			method:   http.MethodPost,
			path:     "/api/homework",
			body:     []byte(`{"title": ""}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required"}`),
		},
		{
			name:     "unknown group",
			method:   http.MethodPost,
			path:     "/api/homework",
			body:     []byte(`{"title": "Essay", "group": "9"}`),
			wantCode: http.StatusNotFound,
		},
	})

	type item struct {
		homework.Homework
		GroupLabel string `json:"groupLabel"`
	}

	rec := do(t, a, http.MethodPost, "/api/homework", []byte(`{"title": "Essay"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var essay item
	unmarshall(t, rec, &essay)
	assert.Equal(t, homework.AllGroups, essay.GroupID)
	assert.Equal(t, "All Groups", essay.GroupLabel)
	assert.Equal(t, homework.StatusPending, essay.Status)
	assert.Equal(t, homework.DueIn, essay.DueDate.Sub(essay.CreatedAt))

	rec = do(t, a, http.MethodPost, "/api/homework", []byte(`{"title": "Exercises", "group": "`+math.ID+`"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, a, http.MethodGet, "/api/homework")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []item
	unmarshall(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "All Groups", items[0].GroupLabel)
	assert.Equal(t, "Math", items[1].GroupLabel)

	rec = do(t, a, http.MethodPut, "/api/homework/"+essay.ID, []byte(`{"title": "Long essay", "group": "`+math.ID+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var updated item
	unmarshall(t, rec, &updated)
	assert.Equal(t, "Long essay", updated.Title)
	assert.Equal(t, "Math", updated.GroupLabel)
	assert.True(t, updated.DueDate.Equal(essay.DueDate))

	runHttpTests(t, a, []httpTest{
		{name: "delete", method: http.MethodDelete, path: "/api/homework/" + essay.ID, wantCode: http.StatusNoContent},
		{name: "delete again", method: http.MethodDelete, path: "/api/homework/" + essay.ID, wantCode: http.StatusNotFound},
	})
}

func TestAttendanceAPI(t *testing.T) {
	a := setup(t)
	english := testutil.CreateGroup(t, a.stack.Groups, "English 101", "#4361ee")
	amani := testutil.CreateStudent(t, a.stack.Students, "Amani", english.ID)
	baraka := testutil.CreateStudent(t, a.stack.Students, "Baraka", english.ID)
	zawadi := testutil.CreateStudent(t, a.stack.Students, "Zawadi")

	runHttpTests(t, a, []httpTest{
		{
			name:     "load without group",
			method:   http.MethodPost,
			path:     "/api/attendance/load",
			body:     []byte(`{"date": "2024-03-04"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "Please select a group and date"}),
		},
		{
			name:     "load without date",
			method:   http.MethodPost,
			path:     "/api/attendance/load?group=" + english.ID,
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "Please select a group and date"}),
		},
		{
			name:     "load bad date",
			method:   http.MethodPost,
			path:     "/api/attendance/load",
			body:     []byte(`{"group": "` + english.ID + `", "date": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date": "invalid date"}`),
		},
		{
			name:     "load unknown group",
			method:   http.MethodPost,
			path:     "/api/attendance/load",
			body:     []byte(`{"group": "9", "date": "2024-03-04"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "get unrecorded",
			method:   http.MethodGet,
			path:     "/api/attendance?group=" + english.ID + "&date=2024-03-04",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: `attendance "1@2024-03-04" not found`}),
		},
		{
			name:     "save a student of another group",
			method:   http.MethodPost,
			path:     "/api/attendance",
			body:     []byte(`{"group": "` + english.ID + `", "date": "2024-03-04", "records": [{"student": "` + zawadi.ID + `", "present": true}]}`),
			wantCode: http.StatusNotFound,
		},
	})

	rec := do(t, a, http.MethodPost, "/api/attendance", marshallObj(t, attendance.NewAttendance{
		GroupID: english.ID,
		Date:    "2024-03-04T10:30",
		Records: []attendance.Record{{StudentID: amani.ID, Present: true, Notes: "on time"}},
	}))
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved attendance.Attendance
	unmarshall(t, rec, &saved)
	assert.Equal(t, "2024-03-04T00:00:00Z", saved.Date.Format("2006-01-02T15:04:05Z07:00"))

	rec = do(t, a, http.MethodGet, "/api/attendance?group="+english.ID+"&date=2024-03-04")
	require.Equal(t, http.StatusOK, rec.Code)
	var got attendance.Attendance
	unmarshall(t, rec, &got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Len(t, got.Records, 1)

	rec = do(t, a, http.MethodPost, "/api/attendance/load", []byte(`{"group": "`+english.ID+`", "date": "2024-03-04"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var sheet attendance.Sheet
	unmarshall(t, rec, &sheet)
	assert.Equal(t, english.ID, sheet.Group.ID)
	assert.Equal(t, []attendance.SheetRow{
		{StudentID: amani.ID, StudentName: "Amani", Present: true, Notes: "on time"},
		{StudentID: baraka.ID, StudentName: "Baraka"},
	}, sheet.Rows)
}
