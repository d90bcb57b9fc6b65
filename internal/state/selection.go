package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/render"
)

// SelectionStore holds the latest selection summary. It is written from
// command goroutines and read from the UI loop.
type SelectionStore interface {
	Summary() hipparchia.Selections
	Links() []render.Link
	Set(hipparchia.Selections)
	Version() int
}

type selectionStore struct {
	mu      sync.Mutex
	summary hipparchia.Selections
	links   []render.Link
	version int
}

func NewSelectionStore() SelectionStore {
	return &selectionStore{}
}

func (s *selectionStore) Summary() hipparchia.Selections {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *selectionStore) Links() []render.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLinks(s.links)
}

// Set replaces the summary and re-derives the deselect links from its script.
func (s *selectionStore) Set(sel hipparchia.Selections) {
	fragment := sel.TimeExclusions + sel.Selections + sel.Exclusions
	links := render.ParseBehavior(sel.Script, fragment).Links
	s.mu.Lock()
	s.summary = sel
	s.links = links
	s.version++
	s.mu.Unlock()
}

func (s *selectionStore) Version() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func cloneLinks(links []render.Link) []render.Link {
	if len(links) == 0 {
		return nil
	}
	dup := make([]render.Link, len(links))
	copy(dup, links)
	return dup
}

// SelectionSource fetches the selection summary from the server.
type SelectionSource interface {
	Selections(ctx context.Context) (hipparchia.Selections, error)
}

// SelectionPanel reloads a SelectionStore from the server.
type SelectionPanel struct {
	source SelectionSource
	store  SelectionStore
}

func NewSelectionPanel(source SelectionSource, store SelectionStore) *SelectionPanel {
	return &SelectionPanel{source: source, store: store}
}

// Reload fetches the summary and stores it.
func (p *SelectionPanel) Reload(ctx context.Context) error {
	sel, err := p.source.Selections(ctx)
	if err != nil {
		return fmt.Errorf("reload selections: %w", err)
	}
	p.store.Set(sel)
	return nil
}

// Store returns the store this panel writes to.
func (p *SelectionPanel) Store() SelectionStore {
	return p.store
}
