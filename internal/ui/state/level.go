package state

import (
	"slices"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/menu"
)

// Level is one screen of the menu stack: the items its node produced, the
// subset the filter lets through, and where the user stands in that subset.
type Level struct {
	ID    string
	Title string
	Node  *menu.Node

	Full  []menu.Item // everything the loader returned
	Items []menu.Item // Full narrowed by Filter

	Filter       string
	FilterCursor int // rune offset into Filter

	Cursor         int
	LastCursor     int // restored when a filter is cleared or a child pops
	ViewportOffset int

	MultiSelect bool
	Selected    []string // marked ids, oldest first
}

// NewLevel builds a level over items. The cursor starts unset so the first
// filter pass can place it.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Node:       node,
		Cursor:     -1,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of id, or -1. Child level ids are colon
// paths, so the last path segment is tried when the full id is absent.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	byID := func(want string) int {
		return slices.IndexFunc(l.Items, func(item menu.Item) bool { return item.ID == want })
	}
	if idx := byID(id); idx >= 0 {
		return idx
	}
	if cut := strings.LastIndexByte(id, ':'); cut >= 0 {
		return byID(id[cut+1:])
	}
	return -1
}

// CurrentItem returns the item under the cursor.
func (l *Level) CurrentItem() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems swaps in a fresh item list. Marks on items that disappeared are
// dropped and the viewport is kept when it still fits.
func (l *Level) UpdateItems(items []menu.Item) {
	l.Full = slices.Clone(items)
	l.Selected = slices.DeleteFunc(l.Selected, func(id string) bool {
		return !slices.ContainsFunc(l.Full, func(item menu.Item) bool { return item.ID == id })
	})
	l.applyFilter()
	if l.ViewportOffset < 0 || l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// IsSelected reports whether id is marked.
func (l *Level) IsSelected(id string) bool {
	return slices.Contains(l.Selected, id)
}

// ToggleSelection marks id, or unmarks it when it already is.
func (l *Level) ToggleSelection(id string) {
	if idx := slices.Index(l.Selected, id); idx >= 0 {
		l.Selected = slices.Delete(l.Selected, idx, idx+1)
		return
	}
	l.Selected = append(l.Selected, id)
}

// ToggleCurrentSelection toggles the item under the cursor on multi-select
// levels.
func (l *Level) ToggleCurrentSelection() {
	if !l.MultiSelect {
		return
	}
	if item, ok := l.CurrentItem(); ok {
		l.ToggleSelection(item.ID)
	}
}

// ClearSelection unmarks everything.
func (l *Level) ClearSelection() {
	l.Selected = nil
}

// SelectedItems returns the marked items in the order they were marked.
func (l *Level) SelectedItems() []menu.Item {
	picked := make([]menu.Item, 0, len(l.Selected))
	for _, id := range l.Selected {
		if idx := slices.IndexFunc(l.Full, func(item menu.Item) bool { return item.ID == id }); idx >= 0 {
			picked = append(picked, l.Full[idx])
		}
	}
	return picked
}
