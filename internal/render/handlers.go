package render

import (
	"sync"

	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

// Handlers holds at most one installed behavior per pane.
type Handlers struct {
	mu        sync.Mutex
	installed map[Pane]Behavior
}

func NewHandlers() *Handlers {
	return &Handlers{installed: make(map[Pane]Behavior)}
}

// Install replaces any behavior on pane with b. An empty behavior only
// uninstalls.
func (h *Handlers) Install(pane Pane, b Behavior) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uninstallLocked(pane)
	if b.Empty() {
		return
	}
	h.installed[pane] = b
	events.Render.Install(string(pane), actionNames(b), len(b.Links))
}

// Uninstall removes the behavior on pane, if any.
func (h *Handlers) Uninstall(pane Pane) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.uninstallLocked(pane)
}

func (h *Handlers) uninstallLocked(pane Pane) {
	b, ok := h.installed[pane]
	if !ok {
		return
	}
	delete(h.installed, pane)
	events.Render.Uninstall(string(pane), actionNames(b))
}

// Behavior returns the behavior installed on pane.
func (h *Handlers) Behavior(pane Pane) (Behavior, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.installed[pane]
	return b, ok
}

// Installed returns how many panes currently carry a behavior.
func (h *Handlers) Installed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.installed)
}

func actionNames(b Behavior) string {
	seen := make(map[Action]bool)
	out := ""
	for _, r := range b.Rules {
		if seen[r.Action] {
			continue
		}
		seen[r.Action] = true
		if out != "" {
			out += ","
		}
		out += string(r.Action)
	}
	return out
}
