package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Harness drives a Model without a terminal. Commands run synchronously and
// depth first, so after each Send the model has settled.
type Harness struct {
	model *Model
	seen  []tea.Msg
}

// NewHarness wraps model. The filter cursor stops blinking so no command ever
// waits on a timer.
func NewHarness(model *Model) *Harness {
	if model != nil {
		model.filterCursor.SetMode(cursor.CursorStatic)
	}
	return &Harness{model: model}
}

// Send delivers msg and everything its commands produce.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	h.deliver(msg)
}

// Press sends one key press per key type.
func (h *Harness) Press(keys ...tea.KeyType) {
	for _, k := range keys {
		h.Send(tea.KeyMsg{Type: k})
	}
}

func (h *Harness) deliver(msg tea.Msg) {
	h.seen = append(h.seen, msg)
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.run(cmd)
}

// run executes cmd. Batches run member by member; spinner ticks are dropped
// since each would schedule the next.
func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg:
	case tea.BatchMsg:
		for _, sub := range msg {
			h.run(sub)
		}
	default:
		h.deliver(msg)
	}
}

// Seen returns every message the model has received, oldest first.
func (h *Harness) Seen() []tea.Msg {
	return h.seen
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
