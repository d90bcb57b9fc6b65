package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindOptions Kind = iota
	KindSelections
)

func (k Kind) String() string {
	switch k {
	case KindOptions:
		return "options"
	case KindSelections:
		return "selections"
	}
	return "unknown"
}

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// Source is the part of the server the watcher polls.
type Source interface {
	Options(ctx context.Context) (hipparchia.Options, error)
	Selections(ctx context.Context) (hipparchia.Selections, error)
}

// Watcher polls the server at a fixed interval and publishes events.
type Watcher struct {
	source   Source
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that polls source every interval. The first
// poll of each kind happens immediately; a non-positive interval polls once.
func NewWatcher(source Source, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		source:   source,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startOptionsPoller()
	w.startSelectionsPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startOptionsPoller() {
	w.wg.Add(1)
	go w.poll(KindOptions, func(ctx context.Context) (interface{}, error) {
		return w.source.Options(ctx)
	})
}

func (w *Watcher) startSelectionsPoller() {
	w.wg.Add(1)
	go w.poll(KindSelections, func(ctx context.Context) (interface{}, error) {
		return w.source.Selections(ctx)
	})
}

// poll fetches one kind until the watcher stops. The gap between fetches
// stretches while the server keeps failing.
func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() (bool, error) {
		data, err := fetch(w.ctx)
		events.Backend.Poll(kind.String(), err)
		select {
		case <-w.ctx.Done():
			return false, err
		case w.events <- Event{Kind: kind, Data: data, Err: err}:
			return true, err
		}
	}

	ok, err := emit()
	if !ok || w.interval <= 0 {
		return
	}

	pace := newPacer(w.interval)
	timer := time.NewTimer(pace.next(err))
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-timer.C:
			if ok, err = emit(); !ok {
				return
			}
			timer.Reset(pace.next(err))
		}
	}
}
