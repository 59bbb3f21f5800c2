package calendar

import (
	"context"
	"strconv"
	"sync"
)

// SourceMock is an in-memory Source whose loads can be made to fail or to block.
type SourceMock struct {
	mu      sync.Mutex
	events  []Event
	nextID  int
	err     error
	block   chan struct{}
	queries int
}

var _ Source = (*SourceMock)(nil)

func NewSourceMock(events ...Event) *SourceMock {
	return &SourceMock{events: append([]Event{}, events...)}
}

// Fail makes every following call return err (nil restores normal behavior).
func (src *SourceMock) Fail(err error) {
	src.mu.Lock()
	defer src.mu.Unlock()
	src.err = err
}

// Block makes QueryEvents wait until the returned func is called or the context is done.
func (src *SourceMock) Block() (release func()) {
	src.mu.Lock()
	defer src.mu.Unlock()
	ch := make(chan struct{})
	src.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Queries returns how many times QueryEvents was called.
func (src *SourceMock) Queries() int {
	src.mu.Lock()
	defer src.mu.Unlock()
	return src.queries
}

func (src *SourceMock) QueryEvents(ctx context.Context) ([]Event, error) {
	src.mu.Lock()
	src.queries++
	block, err := src.block, src.err
	src.block = nil
	events := append([]Event{}, src.events...)
	src.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (src *SourceMock) CreateEvent(_ context.Context, ev Event) (Event, error) {
	src.mu.Lock()
	defer src.mu.Unlock()
	if src.err != nil {
		return Event{}, src.err
	}
	src.nextID++
	ev.ID = "ev" + strconv.Itoa(src.nextID)
	src.events = append(src.events, ev)
	return ev, nil
}

func (src *SourceMock) UpdateEvent(_ context.Context, ev Event) (Event, error) {
	src.mu.Lock()
	defer src.mu.Unlock()
	if src.err != nil {
		return Event{}, src.err
	}
	for i := range src.events {
		if src.events[i].ID == ev.ID {
			src.events[i].Title = ev.Title
			src.events[i].Description = ev.Description
			src.events[i].Start = ev.Start
			src.events[i].End = ev.End
			return src.events[i], nil
		}
	}
	return Event{}, ErrNotFound
}

func (src *SourceMock) DeleteEvent(_ context.Context, id string) error {
	src.mu.Lock()
	defer src.mu.Unlock()
	if src.err != nil {
		return src.err
	}
	for i := range src.events {
		if src.events[i].ID == id {
			src.events = append(src.events[:i:i], src.events[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
