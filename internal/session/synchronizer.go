// Package session keeps the option controls in step with the server's
// session. The server mapping is canonical: controls only ever display the
// last fetched value or the user's own pending edit, and every edit is pushed
// upstream immediately.
package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

// Backend is the server side of the option mapping.
type Backend interface {
	Options(ctx context.Context) (hipparchia.Options, error)
	SetOption(ctx context.Context, key, value string) error
}

// SummaryPanel is reloaded after edits that change the corpus selection.
type SummaryPanel interface {
	Reload(ctx context.Context) error
}

// Edit is one user change to one option.
type Edit struct {
	Key   string
	Value string
}

// ToggleEdit builds an edit for a toggle or exclusive pair.
func ToggleEdit(key string, on bool) Edit {
	return Edit{Key: key, Value: yesNo(on)}
}

// NumberEdit builds an edit for a spinner.
func NumberEdit(key string, v int) Edit {
	return Edit{Key: key, Value: itoa(v)}
}

// ChoiceEdit builds an edit for a selector.
func ChoiceEdit(key, choice string) Edit {
	return Edit{Key: key, Value: choice}
}

// Synchronizer projects server options onto a Registry and pushes edits.
type Synchronizer struct {
	reg     *Registry
	backend Backend
	panel   SummaryPanel
	cascade map[string]struct{}

	mu   sync.Mutex
	tail chan struct{}
}

// New builds a synchronizer. panel may be nil.
func New(reg *Registry, backend Backend, panel SummaryPanel) *Synchronizer {
	cascade := make(map[string]struct{})
	for _, k := range CascadeKeys() {
		cascade[k] = struct{}{}
	}
	return &Synchronizer{reg: reg, backend: backend, panel: panel, cascade: cascade}
}

// Registry returns the controls this synchronizer owns.
func (s *Synchronizer) Registry() *Registry {
	return s.reg
}

// Fetch reads the canonical option mapping without applying it.
func (s *Synchronizer) Fetch(ctx context.Context) (hipparchia.Options, error) {
	opts, err := s.backend.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch options: %w", err)
	}
	return opts, nil
}

// Refresh fetches the option mapping and applies it.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	opts, err := s.Fetch(ctx)
	if err != nil {
		return err
	}
	s.Apply(opts)
	return nil
}

// Apply updates every control whose key is present in values. Missing keys
// leave controls untouched, unknown keys are ignored, and values a control
// cannot hold are rejected. It returns the number of controls updated.
func (s *Synchronizer) Apply(values map[string]string) int {
	applied := 0
	for _, t := range s.reg.toggles {
		if v, ok := values[t.Key]; ok {
			t.set(v == valueYes)
			applied++
		}
	}
	for _, p := range s.reg.pairs {
		if v, ok := values[p.Key]; ok {
			p.set(v == valueYes)
			applied++
		}
	}
	for _, sp := range s.reg.spinners {
		v, ok := values[sp.Key]
		if !ok {
			continue
		}
		n, valid := sp.parse(v)
		if !valid {
			events.Options.Rejected(sp.Key, v, "not an integer")
			continue
		}
		sp.Value = n
		applied++
	}
	for _, sel := range s.reg.selectors {
		v, ok := values[sel.Key]
		if !ok {
			continue
		}
		if !sel.valid(v) {
			events.Options.Rejected(sel.Key, v, "not a listed choice")
			continue
		}
		sel.Value = v
		applied++
	}
	events.Options.Refresh(len(values), applied)
	return applied
}

// Stage applies e to the local controls and returns the edits to push. A
// date edit that leaves the earliest date after the latest also moves the
// earliest date, which adds a second edit.
func (s *Synchronizer) Stage(e Edit) ([]Edit, error) {
	switch s.reg.KindOf(e.Key) {
	case KindToggle:
		on, err := parseYesNo(e)
		if err != nil {
			return nil, err
		}
		s.reg.toggleIx[e.Key].set(on)
		return []Edit{ToggleEdit(e.Key, on)}, nil
	case KindPair:
		on, err := parseYesNo(e)
		if err != nil {
			return nil, err
		}
		s.reg.pairIx[e.Key].set(on)
		return []Edit{ToggleEdit(e.Key, on)}, nil
	case KindSpinner:
		sp := s.reg.spinIx[e.Key]
		n, ok := sp.parse(e.Value)
		if !ok {
			return nil, fmt.Errorf("%s: %q is not an integer", e.Key, e.Value)
		}
		sp.Value = n
		edits := []Edit{NumberEdit(e.Key, n)}
		return append(edits, s.reconcileDates()...), nil
	case KindSelector:
		sel := s.reg.selectIx[e.Key]
		if !sel.valid(e.Value) {
			return nil, fmt.Errorf("%s: %q is not one of %v", e.Key, e.Value, sel.Choices)
		}
		sel.Value = e.Value
		return []Edit{e}, nil
	}
	return nil, fmt.Errorf("unknown option %q", e.Key)
}

func (s *Synchronizer) reconcileDates() []Edit {
	earliest, okE := s.reg.spinIx["earliestdate"]
	latest, okL := s.reg.spinIx["latestdate"]
	if !okE || !okL || earliest.Value <= latest.Value {
		return nil
	}
	earliest.Value = latest.Value
	return []Edit{NumberEdit(earliest.Key, earliest.Value)}
}

// Push sends each edit upstream in order. Acknowledgements are ignored and
// failures are only logged. It reports whether any edit needs a cascade.
func (s *Synchronizer) Push(ctx context.Context, edits []Edit) bool {
	cascade := false
	for _, e := range edits {
		events.Options.Push(e.Key, e.Value)
		if err := s.backend.SetOption(ctx, e.Key, e.Value); err != nil {
			events.Options.PushFailed(e.Key, err)
		}
		if _, ok := s.cascade[e.Key]; ok {
			events.Options.Cascade(e.Key)
			cascade = true
		}
	}
	return cascade
}

// Enqueue reserves the next slot in the push queue for edits and returns the
// function that sends them. Each returned function waits for the push queued
// before it, so edits reach the server in the order they were enqueued no
// matter which goroutine runs them.
func (s *Synchronizer) Enqueue(ctx context.Context, edits []Edit) func() bool {
	done := make(chan struct{})
	s.mu.Lock()
	prev := s.tail
	s.tail = done
	s.mu.Unlock()
	return func() bool {
		defer close(done)
		if prev != nil {
			select {
			case <-prev:
			case <-ctx.Done():
				return false
			}
		}
		return s.Push(ctx, edits)
	}
}

// Cascade reloads the summary panel and then fetches the option mapping.
// The caller applies the returned mapping.
func (s *Synchronizer) Cascade(ctx context.Context) (hipparchia.Options, error) {
	if s.panel != nil {
		if err := s.panel.Reload(ctx); err != nil {
			return nil, fmt.Errorf("reload selections: %w", err)
		}
	}
	return s.Fetch(ctx)
}

// Edit stages, pushes, and cascades e in one call.
func (s *Synchronizer) Edit(ctx context.Context, e Edit) error {
	edits, err := s.Stage(e)
	if err != nil {
		return err
	}
	if !s.Enqueue(ctx, edits)() {
		return nil
	}
	opts, err := s.Cascade(ctx)
	if err != nil {
		return err
	}
	s.Apply(opts)
	return nil
}

func parseYesNo(e Edit) (bool, error) {
	switch e.Value {
	case valueYes:
		return true, nil
	case valueNo:
		return false, nil
	}
	return false, fmt.Errorf("%s: expected yes or no, got %q", e.Key, e.Value)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
