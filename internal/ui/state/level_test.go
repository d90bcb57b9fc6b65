package state

import (
	"slices"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/menu"
)

func newTestLevel(ids ...string) *Level {
	items := make([]menu.Item, len(ids))
	for i, id := range ids {
		items[i] = menu.Item{ID: id, Label: id}
	}
	return NewLevel("test", "Test", items, nil)
}

func TestNewLevelStartsOnLastItem(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if l.Cursor != 2 {
		t.Fatalf("expected cursor on last item, got %d", l.Cursor)
	}
	if item, ok := l.CurrentItem(); !ok || item.ID != "c" {
		t.Fatalf("unexpected current item %#v", item)
	}
	if _, ok := newTestLevel().CurrentItem(); ok {
		t.Fatalf("expected no current item on an empty level")
	}
}

func TestIndexOfFallsBackToLastPathSegment(t *testing.T) {
	l := newTestLevel("author", "work", "passage")
	if idx := l.IndexOf("work"); idx != 1 {
		t.Fatalf("expected 1, got %d", idx)
	}
	if idx := l.IndexOf("selections:make:passage"); idx != 2 {
		t.Fatalf("expected segment match 2, got %d", idx)
	}
	if idx := l.IndexOf("selections:make:genre"); idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
	if idx := l.IndexOf(""); idx != -1 {
		t.Fatalf("expected -1 for empty id, got %d", idx)
	}
}

func TestSelectionKeepsMarkOrder(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	l.MultiSelect = true
	l.Cursor = 2
	l.ToggleCurrentSelection()
	l.Cursor = 0
	l.ToggleCurrentSelection()

	var ids []string
	for _, item := range l.SelectedItems() {
		ids = append(ids, item.ID)
	}
	if !slices.Equal(ids, []string{"c", "a"}) {
		t.Fatalf("expected mark order [c a], got %v", ids)
	}

	l.ToggleSelection("c")
	if l.IsSelected("c") || !l.IsSelected("a") {
		t.Fatalf("unexpected marks %v", l.Selected)
	}
	l.ClearSelection()
	if len(l.SelectedItems()) != 0 {
		t.Fatalf("expected no marks after clear")
	}
}

func TestToggleIgnoredOnSingleSelectLevels(t *testing.T) {
	l := newTestLevel("a")
	l.ToggleCurrentSelection()
	if len(l.Selected) != 0 {
		t.Fatalf("expected no marks, got %v", l.Selected)
	}
}

func TestUpdateItemsDropsVanishedMarks(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	l.ToggleSelection("a")
	l.ToggleSelection("c")
	l.ViewportOffset = 2
	l.UpdateItems([]menu.Item{{ID: "a"}, {ID: "b"}})
	if !slices.Equal(l.Selected, []string{"a"}) {
		t.Fatalf("expected only a to stay marked, got %v", l.Selected)
	}
	if l.ViewportOffset != 0 {
		t.Fatalf("expected viewport reset past the end, got %d", l.ViewportOffset)
	}
	if l.Cursor != 1 {
		t.Fatalf("expected cursor clamped to 1, got %d", l.Cursor)
	}
}

func TestMoveCursorHomeAndEnd(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if !l.MoveCursorHome() || l.Cursor != 0 {
		t.Fatalf("expected home at 0, got %d", l.Cursor)
	}
	if l.MoveCursorHome() {
		t.Fatalf("expected no movement when already home")
	}
	if !l.MoveCursorEnd() || l.Cursor != 2 {
		t.Fatalf("expected end at 2, got %d", l.Cursor)
	}

	empty := newTestLevel()
	empty.Cursor = 5
	if empty.MoveCursorHome() || empty.MoveCursorEnd() {
		t.Fatalf("expected no movement on an empty level")
	}
	if empty.Cursor != 0 {
		t.Fatalf("expected cursor parked at 0, got %d", empty.Cursor)
	}
}

func TestMoveCursorPaging(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	l.Cursor = -1
	steps := []struct {
		move  func(int) bool
		rows  int
		moved bool
		want  int
	}{
		{l.MoveCursorPageDown, 2, true, 2},
		{l.MoveCursorPageDown, 2, true, 4},
		{l.MoveCursorPageDown, 2, false, 4},
		{l.MoveCursorPageUp, 2, true, 2},
		{l.MoveCursorPageUp, 10, true, 0},
		{l.MoveCursorPageDown, 0, true, 4},
	}
	for i, step := range steps {
		if moved := step.move(step.rows); moved != step.moved || l.Cursor != step.want {
			t.Fatalf("step %d: expected moved=%v cursor=%d, got %v/%d", i, step.moved, step.want, moved, l.Cursor)
		}
	}
}

func TestEnsureCursorVisibleScrollsMinimally(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	l.Cursor, l.ViewportOffset = 4, 0
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", l.ViewportOffset)
	}

	l.Cursor = 3
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset to stay at 3, got %d", l.ViewportOffset)
	}

	l.Cursor, l.ViewportOffset = 1, 4
	l.EnsureCursorVisible(3)
	if l.ViewportOffset != 1 {
		t.Fatalf("expected offset aligned with cursor, got %d", l.ViewportOffset)
	}

	l.Cursor = -3
	l.EnsureCursorVisible(0)
	if l.Cursor != 0 || l.ViewportOffset != 0 {
		t.Fatalf("expected cursor and offset reset, got %d/%d", l.Cursor, l.ViewportOffset)
	}
}
