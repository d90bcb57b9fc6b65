package state

import (
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/menu"
)

const defaultHistoryLimit = 20

type HistoryStore interface {
	Entries() []menu.JobEntry
	Add(menu.JobEntry)
	Finish(id string, err error)
}

type historyStore struct {
	mu      sync.Mutex
	limit   int
	entries []menu.JobEntry
}

// NewHistoryStore keeps the most recent limit jobs, newest first. A
// non-positive limit uses the default.
func NewHistoryStore(limit int) HistoryStore {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &historyStore{limit: limit}
}

func (h *historyStore) Entries() []menu.JobEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	dup := make([]menu.JobEntry, len(h.entries))
	copy(dup, h.entries)
	return dup
}

func (h *historyStore) Add(entry menu.JobEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]menu.JobEntry{entry}, h.entries...)
	if len(h.entries) > h.limit {
		h.entries = h.entries[:h.limit]
	}
}

// Finish records the outcome of the job with the given id.
func (h *historyStore) Finish(id string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.entries {
		if h.entries[i].ID != id {
			continue
		}
		h.entries[i].Done = true
		if err != nil {
			h.entries[i].Err = err.Error()
		}
		return
	}
}
