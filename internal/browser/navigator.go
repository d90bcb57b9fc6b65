// Package browser tracks the passage browser: the locators of the passages
// either side of the one on screen and the actions bound to reach them.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

// State is the browser's lifecycle.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Fetcher loads passages.
type Fetcher interface {
	Browse(ctx context.Context, locator string) (hipparchia.Passage, error)
	BrowseRaw(ctx context.Context, locator string) (hipparchia.Passage, error)
}

// RequestFunc is invoked by a bound action with the locator it closed over.
type RequestFunc func(locator string, raw bool)

// Navigator is the browse state machine. Fetch does the I/O; Apply binds the
// result. Apply and Close must be called from one goroutine.
type Navigator struct {
	fetcher  Fetcher
	bindings *Bindings
	request  RequestFunc
	state    State
	passage  hipparchia.Passage
}

// New returns a closed navigator. When request is nil, bound actions fetch
// and apply synchronously.
func New(fetcher Fetcher, request RequestFunc) *Navigator {
	n := &Navigator{fetcher: fetcher, bindings: NewBindings(), request: request}
	if n.request == nil {
		n.request = func(locator string, raw bool) {
			_ = n.Browse(context.Background(), locator, raw)
		}
	}
	return n
}

func (n *Navigator) State() State                { return n.state }
func (n *Navigator) Passage() hipparchia.Passage { return n.passage }
func (n *Navigator) Bindings() *Bindings         { return n.bindings }

// Fetch requests the passage at locator. raw selects the raw-locus entry
// path, which accepts a citation typed by the user.
func (n *Navigator) Fetch(ctx context.Context, locator string, raw bool) (hipparchia.Passage, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return hipparchia.Passage{}, fmt.Errorf("browse: empty locator")
	}
	events.Browse.Request(locator, raw)
	var (
		p   hipparchia.Passage
		err error
	)
	if raw {
		p, err = n.fetcher.BrowseRaw(ctx, locator)
	} else {
		p, err = n.fetcher.Browse(ctx, locator)
	}
	if err != nil {
		return hipparchia.Passage{}, fmt.Errorf("browse %s: %w", locator, err)
	}
	return p, nil
}

// Apply opens the browser on p. Both directions are unbound before the new
// actions are bound, so exactly one action per direction is ever attached.
func (n *Navigator) Apply(p hipparchia.Passage) {
	n.unbind()
	n.passage = p
	n.state = Open
	n.bind(Forward, p.Forward)
	n.bind(Back, p.Back)
	events.Browse.Bound(p.Forward, p.Back)
}

func (n *Navigator) bind(d Direction, locator string) {
	if locator == "" {
		return
	}
	request := n.request
	n.bindings.Bind(d, func() { request(locator, false) })
}

func (n *Navigator) unbind() {
	n.bindings.Unbind(Forward)
	n.bindings.Unbind(Back)
}

// Browse fetches and applies in one call.
func (n *Navigator) Browse(ctx context.Context, locator string, raw bool) error {
	p, err := n.Fetch(ctx, locator, raw)
	if err != nil {
		return err
	}
	n.Apply(p)
	return nil
}

// Go triggers the action bound to d. It reports false when nothing is bound
// or the browser is closed.
func (n *Navigator) Go(d Direction) bool {
	if n.state != Open {
		return false
	}
	return n.bindings.Trigger(d) > 0
}

// Close unbinds both directions and returns to Closed.
func (n *Navigator) Close() {
	if n.state == Closed {
		return
	}
	n.unbind()
	n.state = Closed
	n.passage = hipparchia.Passage{}
	events.Browse.Closed()
}
