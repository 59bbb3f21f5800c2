package tests

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core/calendar"
	"github.com/trezcool/classroom/core/roster"
	"github.com/trezcool/classroom/tests"
)

func TestEventAPI_query(t *testing.T) {
	a := setup(t)
	math := testutil.CreateGroup(t, a.stack.Groups, "Math", "#ff0000")
	testutil.CreateEvents(t, a.stack.Events, "Quiz", "2024-03-04T09:00", "2024-03-04T10:00", math.ID)

	rec := do(t, a, http.MethodGet, "/api/calendar-events")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []map[string]interface{}
	unmarshall(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, "Quiz (Math)", events[0]["title"])
	assert.Equal(t, "2024-03-04T09:00:00Z", events[0]["startDate"])
	assert.Equal(t, "2024-03-04T10:00:00Z", events[0]["endDate"])
	assert.Equal(t, []interface{}{math.ID}, events[0]["groups"])
	assert.Equal(t, "#ff0000", events[0]["backgroundColor"])
	assert.NotEmpty(t, events[0]["id"])
	assert.NotEmpty(t, events[0]["date"])
}

func TestEventAPI_create(t *testing.T) {
	a := setup(t)
	english := testutil.CreateGroup(t, a.stack.Groups, "English 101", "#4361ee")
	math := testutil.CreateGroup(t, a.stack.Groups, "Math", "#ff0000")

	runHttpTests(t, a, []httpTest{
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/api/calendar-events",
			body:     []byte(`{"title": " ", "startDate": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required", "startDate": "invalid date", "endDate": "this field is required"}`),
		},
		{
			name:     "unknown group",
			method:   http.MethodPost,
			path:     "/api/calendar-events",
			body:     []byte(`{"title": "Quiz", "startDate": "2024-03-04", "endDate": "2024-03-04", "groups": ["9"]}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: `group "9" not found`}),
		},
	})

	tests := []struct {
		name      string
		groups    []string
		wantColor string
	}{
		{name: "no group", wantColor: calendar.DefaultColor},
		{name: "single group", groups: []string{math.ID}, wantColor: "#ff0000"},
		{name: "several groups", groups: []string{english.ID, math.ID}, wantColor: calendar.DefaultColor},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := marshallObj(t, map[string]interface{}{
				"title":     "Quiz",
				"startDate": "2024-03-04T09:00:00Z",
				"endDate":   "2024-03-04T10:00:00Z",
				"groups":    tc.groups,
				"createdBy": "teacher",
			})
			rec := do(t, a, http.MethodPost, "/api/calendar-events", body)
			require.Equal(t, http.StatusCreated, rec.Code)

			var ev calendar.Event
			unmarshall(t, rec, &ev)
			assert.NotEmpty(t, ev.ID)
			assert.Equal(t, "Quiz", ev.Title)
			assert.Equal(t, tc.wantColor, ev.BackgroundColor)
			assert.Equal(t, "teacher", ev.CreatedBy)

			stored, err := a.stack.Events.Get(ev.ID)
			require.NoError(t, err)
			assert.Equal(t, ev.Title, stored.Title)
		})
	}
}

func TestEventAPI_updateAndDelete(t *testing.T) {
	a := setup(t)
	events := testutil.CreateEvents(t, a.stack.Events, "Quiz", "2024-03-04", "2024-03-04")
	id := events[0].ID

	runHttpTests(t, a, []httpTest{
		{
			name:     "update unknown",
			method:   http.MethodPut,
			path:     "/api/calendar-events/lol",
			body:     []byte(`{"title": "Exam", "startDate": "2024-03-05", "endDate": "2024-03-05"}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: `calendar event "lol" not found`}),
		},
		{
			name:     "update",
			method:   http.MethodPut,
			path:     "/api/calendar-events/" + id,
			body:     []byte(`{"title": "Exam", "startDate": "2024-03-05", "endDate": "2024-03-05"}`),
			wantCode: http.StatusOK,
		},
		{name: "delete", method: http.MethodDelete, path: "/api/calendar-events/" + id, wantCode: http.StatusNoContent},
		{name: "delete again", method: http.MethodDelete, path: "/api/calendar-events/" + id, wantCode: http.StatusNotFound},
	})

	assert.Empty(t, a.stack.Events.All())
}

func TestViewAPI_reload(t *testing.T) {
	source := calendar.NewSourceMock()
	a := setup(t, source)
	testutil.CreateEvents(t, a.stack.Events, "Quiz", "2024-03-04", "2024-03-04")
	require.Len(t, a.binder.View().Calendars[roster.MiniCalendar], 1)

	rec := do(t, a, http.MethodPost, "/api/view/reload")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, source.Queries(), "one load per widget")

	var view roster.View
	unmarshall(t, rec, &view)
	assert.Len(t, view.Calendars[roster.MainCalendar], 1)
	assert.Len(t, view.Calendars[roster.MiniCalendar], 1)

	source.Fail(errors.New("connection refused"))
	rec = do(t, a, http.MethodPost, "/api/view/reload")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	view = a.binder.View()
	assert.Empty(t, view.Calendars[roster.MainCalendar])
	assert.Empty(t, view.Calendars[roster.MiniCalendar])
	assert.Len(t, a.stack.Events.All(), 1, "a failed load keeps the event set")
}
