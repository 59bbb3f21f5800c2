package roster

import (
	"context"
	"sync"

	"github.com/trezcool/classroom/core/calendar"
)

// Loader fetches the calendar events; implemented by *calendar.Store.
type Loader interface {
	LoadRemote(ctx context.Context) ([]calendar.Event, error)
}

// Widget is a calendar view (main or mini) that loads its events asynchronously.
// Starting a reload cancels the one still in flight so stale results are never shown.
type Widget struct {
	name   string
	loader Loader
	binder *Binder

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Widget returns a calendar widget rendering into the binder's view under name.
func (b *Binder) Widget(name string, loader Loader) *Widget {
	return &Widget{name: name, loader: loader, binder: b}
}

func (w *Widget) Name() string { return w.name }

// Reload fetches the events and shows them. On failure the widget shows zero events for this
// cycle and the error is returned. A reload superseded by a newer one returns context.Canceled
// and leaves the view alone.
func (w *Widget) Reload(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	if w.cancel != nil {
		w.cancel()
	}
	w.seq++
	seq := w.seq
	w.cancel = cancel
	w.mu.Unlock()

	events, err := w.loader.LoadRemote(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.seq {
		cancel()
		return context.Canceled
	}
	w.cancel = nil
	cancel()

	if err != nil {
		w.binder.showEvents(w.name, nil)
		return err
	}
	w.binder.showEvents(w.name, events)
	return nil
}

// Stop cancels the reload in flight, if any.
func (w *Widget) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}
