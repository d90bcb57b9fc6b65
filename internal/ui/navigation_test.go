package ui

import (
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleEscapeKeyFromRootQuits(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	cmd := m.handleEscapeKey()
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestHandleEscapeKeyPopsLevelAndRestoresCursor(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	parent := m.currentLevel()
	parent.Cursor = 1
	parent.LastCursor = 2

	m.stack = append(m.stack, newLevel("options:choice", "sort", []menu.Item{{ID: "sortorder=shortname", Label: "Shortname"}}, nil))
	m.errMsg = "previous error"

	cmd := m.handleEscapeKey()
	if cmd != nil {
		t.Fatalf("expected no command when popping a level")
	}
	if len(m.stack) != 1 {
		t.Fatalf("expected stack to shrink to 1, got %d", len(m.stack))
	}
	if parent.Cursor != 2 {
		t.Fatalf("expected parent cursor restored to 2, got %d", parent.Cursor)
	}
	if parent.LastCursor != -1 {
		t.Fatalf("expected parent LastCursor reset, got %d", parent.LastCursor)
	}
	if m.errMsg != "" {
		t.Fatalf("expected error message cleared, got %q", m.errMsg)
	}
}

func TestEnterLoadsSubmenu(t *testing.T) {
	h := NewHarness(NewModel(Config{}, Deps{}))
	enterRootItem(t, h, "session")

	current := h.Model().currentLevel()
	if current.ID != "session" {
		t.Fatalf("expected session level, got %s", current.ID)
	}
	if current.IndexOf("reset") < 0 {
		t.Fatalf("expected reset entry, got %#v", current.Items)
	}
	if h.Model().loading {
		t.Fatalf("expected loading to stop once the level arrived")
	}
}

func TestEnterWithoutServerReportsError(t *testing.T) {
	h := NewHarness(NewModel(Config{}, Deps{}))
	enterRootItem(t, h, "session")
	current := h.Model().currentLevel()
	current.Cursor = current.IndexOf("user")
	h.Press(tea.KeyEnter)

	if got := h.Model().errMsg; got != "not connected" {
		t.Fatalf("expected not connected error, got %q", got)
	}
}

func TestMultiSelectJoinsSelectedIDs(t *testing.T) {
	var got menu.Item
	m := NewModel(Config{}, Deps{})
	node := &menu.Node{ID: "picks", MultiSelect: true, Action: func(_ menu.Context, item menu.Item) tea.Cmd {
		got = item
		return nil
	}}
	lvl := newLevel("picks", "picks", []menu.Item{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}, {ID: "c", Label: "C"}}, node)
	m.stack = append(m.stack, lvl)
	m.applyNodeSettings(lvl)
	h := NewHarness(m)

	h.Press(tea.KeyTab)
	lvl.Cursor = 2
	h.Press(tea.KeyTab)
	h.Press(tea.KeyEnter)

	if got.ID != "a\nc" || got.Label != "A, C" {
		t.Fatalf("unexpected joined item %#v", got)
	}
	if len(lvl.Selected) != 0 {
		t.Fatalf("expected selection cleared after enter")
	}
}
