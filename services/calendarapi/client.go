// Package calendarapi is a client of the /api/calendar-events endpoints. It implements calendar.Source,
// so an EventStore can be backed by a remote server instead of a database.
package calendarapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classroom/core"
	"github.com/trezcool/classroom/core/calendar"
)

const eventsPath = "/api/calendar-events"

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

type Client struct {
	baseURL string
	http    *http.Client
}

var _ calendar.Source = (*Client)(nil)

func NewClient(conf core.CalendarConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Timeout},
	}
}

// eventPayload is the body of POST/PUT requests.
type eventPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"startDate"`
	End         time.Time `json:"endDate"`
	GroupIDs    []string  `json:"groups,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		rdr = bytes.NewReader(data)
	}

	u, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return errors.Wrap(err, "building url")
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response")
}

func (c *Client) QueryEvents(ctx context.Context) ([]calendar.Event, error) {
	events := make([]calendar.Event, 0)
	if err := c.do(ctx, http.MethodGet, eventsPath, nil, &events, http.StatusOK); err != nil {
		return nil, core.NewRemoteFetchError("fetching events", err)
	}
	return events, nil
}

// CreateEvent posts a single event and returns the created record. ev is expected to be already
// fanned out (one group at most); the server derives its color from that group.
func (c *Client) CreateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	payload := eventPayload{
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
		GroupIDs:    ev.GroupIDs,
		CreatedBy:   ev.CreatedBy,
	}
	var created calendar.Event
	if err := c.do(ctx, http.MethodPost, eventsPath, payload, &created, http.StatusCreated); err != nil {
		return calendar.Event{}, core.NewRemoteFetchError("creating event", err)
	}
	return created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, ev calendar.Event) (calendar.Event, error) {
	payload := eventPayload{
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
	}
	var updated calendar.Event
	err := c.do(ctx, http.MethodPut, eventsPath+"/"+url.PathEscape(ev.ID), payload, &updated, http.StatusOK)
	if err != nil {
		return calendar.Event{}, c.trapNotFound(err, "updating event")
	}
	return updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, eventsPath+"/"+url.PathEscape(id), nil, nil, http.StatusNoContent)
	if err != nil {
		return c.trapNotFound(err, "deleting event")
	}
	return nil
}

func (c *Client) trapNotFound(err error, op string) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return calendar.ErrNotFound
	}
	return core.NewRemoteFetchError(op, err)
}
