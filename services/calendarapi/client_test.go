package calendarapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/calendar"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(core.CalendarConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestClient_QueryEvents(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, eventsPath, r.URL.Path)
			_ = json.NewEncoder(w).Encode([]calendar.Event{
				{ID: "e1", Title: "Quiz (Math)", Start: start, End: start.Add(time.Hour), GroupIDs: []string{"2"}, BackgroundColor: "#ff0000"},
			})
		})

		events, err := c.QueryEvents(context.Background())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Quiz (Math)", events[0].Title)
		assert.Equal(t, []string{"2"}, events[0].GroupIDs)
		assert.True(t, start.Equal(events[0].Start))
	})

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			events, err := c.QueryEvents(context.Background())
			assert.Nil(t, events)
			assert.True(t, core.IsRemoteFetch(err))
		})
	}
}

func TestClient_CreateEvent(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	var got eventPayload
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(calendar.Event{ID: "e9", Title: got.Title, GroupIDs: got.GroupIDs})
	})

	ev, err := c.CreateEvent(context.Background(), calendar.Event{
		Title:    "Quiz (Math)",
		Start:    start,
		End:      start.Add(time.Hour),
		GroupIDs: []string{"2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "e9", ev.ID)
	assert.Equal(t, "Quiz (Math)", got.Title)
	assert.Equal(t, []string{"2"}, got.GroupIDs)
}

func TestClient_DeleteEvent(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		checkFn func(t *testing.T, err error)
	}{
		{
			name:    "deleted",
			status:  http.StatusNoContent,
			checkFn: func(t *testing.T, err error) { assert.NoError(t, err) },
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			checkFn: func(t *testing.T, err error) { assert.Equal(t, calendar.ErrNotFound, err) },
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			checkFn: func(t *testing.T, err error) { assert.True(t, core.IsRemoteFetch(err)) },
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, eventsPath+"/e1", r.URL.Path)
				w.WriteHeader(tc.status)
			})
			tc.checkFn(t, c.DeleteEvent(context.Background(), "e1"))
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(core.CalendarConfig{BaseURL: srv.URL, Timeout: time.Second})

	_, err := c.QueryEvents(context.Background())
	assert.True(t, core.IsRemoteFetch(err))
}
