package ui

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// cursorKeys maps menu navigation keys to level moves. rows is the number of
// visible items.
var cursorKeys = map[string]func(l *level, rows int) bool{
	"up":     func(l *level, _ int) bool { return wrapCursor(l, -1) },
	"down":   func(l *level, _ int) bool { return wrapCursor(l, 1) },
	"pgup":   (*level).MoveCursorPageUp,
	"pgdown": (*level).MoveCursorPageDown,
	"home":   func(l *level, _ int) bool { return l.MoveCursorHome() },
	"end":    func(l *level, _ int) bool { return l.MoveCursorEnd() },
}

// wrapCursor steps one item, wrapping at either end of the list.
func wrapCursor(l *level, step int) bool {
	n := len(l.Items)
	if n == 0 {
		return false
	}
	l.Cursor = ((l.Cursor+step)%n + n) % n
	return true
}

func (m *Model) moveCursor(move func(l *level, rows int) bool) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if move(current, m.maxVisibleItems()) {
		events.Menu.Cursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
}

func (m *Model) syncViewport(l *level) {
	if l != nil {
		l.EnsureCursorVisible(m.maxVisibleItems())
	}
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Model) findLevelByID(id string) *level {
	for _, lvl := range m.stack {
		if lvl.ID == id {
			m.applyNodeSettings(lvl)
			return lvl
		}
	}
	return nil
}

// handleEscapeKey pops the current level, or quits from the root. The parent
// gets back the cursor it had when the child was opened.
func (m *Model) handleEscapeKey() tea.Cmd {
	if len(m.stack) <= 1 {
		return tea.Quit
	}
	child := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	parent := m.currentLevel()

	switch idx := parent.IndexOf(child.ID); {
	case parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items):
		parent.Cursor = parent.LastCursor
	case idx >= 0:
		parent.Cursor = idx
	case len(parent.Items) > 0:
		parent.Cursor = len(parent.Items) - 1
	}
	parent.LastCursor = -1
	m.syncViewport(parent)
	m.errMsg = ""
	m.forceClearInfo()
	return nil
}

// chosenItem is the item enter acts on: the one under the cursor, or on a
// multi-select level with marks all of them, ids joined by newlines and
// labels by commas.
func chosenItem(l *level, cursor menu.Item) menu.Item {
	if !l.MultiSelect {
		return cursor
	}
	marked := l.SelectedItems()
	if len(marked) == 0 {
		return cursor
	}
	ids := make([]string, len(marked))
	labels := make([]string, len(marked))
	for i, item := range marked {
		ids[i], labels[i] = item.ID, item.Label
	}
	l.ClearSelection()
	return menu.Item{ID: strings.Join(ids, "\n"), Label: strings.Join(labels, ", ")}
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.CurrentItem()
	if !ok {
		return nil
	}
	events.Menu.Enter(current.ID, item.ID, item.Label, current.Filter)
	ctx := m.menuContext()

	before := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, before)
	item = chosenItem(current, item)

	node := current.Node
	if node == nil {
		node, _ = m.registry.Find(current.ID)
	}
	if node == nil {
		m.setInfo(fmt.Sprintf("Nothing to do for %s", item.Label))
		return nil
	}

	// A child node with a loader opens a level; otherwise the child's action
	// runs, falling back to the action of the level itself.
	target := node
	if child, ok := node.Children[item.ID]; ok && (child.Loader != nil || child.Action != nil) {
		target = child
	}
	switch {
	case target != node && target.Loader != nil:
		current.LastCursor = current.Cursor
		spin := m.startLoading(target.ID, item.Label)
		return tea.Batch(spin, m.loadMenuCmd(ctx, target.ID, item.Label, target.Loader))
	case target.Action != nil:
		spin := m.startLoading(target.ID, item.Label)
		req := command.Request{ID: target.ID, Label: item.Label, Handler: target.Action, Item: item}
		return tea.Batch(spin, m.bus.Execute(ctx, req))
	}
	m.setInfo(fmt.Sprintf("Nothing to do for %s", item.Label))
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	key := keyMsg.String()
	switch key {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+x":
		m.abandonJob()
		return nil
	}
	switch m.mode {
	case ModeResults:
		return m.handleResultsKey(keyMsg)
	case ModeMenu:
	default:
		return nil
	}

	current := m.currentLevel()
	if keyMsg.Type == tea.KeyTab {
		if current != nil {
			current.ToggleCurrentSelection()
		}
		return nil
	}
	// Arrows step spinners while the option list is unfiltered.
	if current != nil && current.ID == "options" && current.Filter == "" {
		switch key {
		case "left":
			return m.stepSpinner(-1)
		case "right":
			return m.stepSpinner(1)
		}
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	if move, ok := cursorKeys[key]; ok {
		m.moveCursor(move)
		return nil
	}
	switch key {
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "ctrl+r":
		m.focusResults()
	}
	return nil
}

func (m *Model) handleCategoryLoadedMsg(msg tea.Msg) tea.Cmd {
	update, ok := msg.(categoryLoadedMsg)
	if !ok || update.id != m.pendingID {
		return nil
	}
	m.stopLoading()
	if update.err != nil {
		m.errMsg = update.err.Error()
		return nil
	}
	m.errMsg = ""
	node, _ := m.registry.Find(update.id)
	lvl := newLevel(update.id, update.title, update.items, node)
	m.applyNodeSettings(lvl)
	m.syncViewport(lvl)
	m.stack = append(m.stack, lvl)
	switch {
	case len(lvl.Items) == 0:
		m.setInfo("No entries found.")
	case m.infoMsg != "":
		m.clearInfo()
	}
	return nil
}

func (m *Model) applyNodeSettings(l *level) {
	if l == nil {
		return
	}
	if l.Node == nil {
		l.Node, _ = m.registry.Find(l.ID)
	}
	if l.Node != nil {
		l.MultiSelect = l.Node.MultiSelect
	}
}

// applyRootMenuOverride starts the stack at the named menu instead of the
// main menu. An unknown name keeps the main menu and reports an error.
func (m *Model) applyRootMenuOverride(requested string) {
	m.rootMenuID = ""
	m.rootTitle = defaultRootTitle
	name := strings.ToLower(strings.TrimSpace(requested))
	if name == "" || m.registry == nil {
		return
	}
	node, ok := m.registry.Find(name)
	if !ok {
		m.errMsg = fmt.Sprintf("Unknown root menu %q", strings.TrimSpace(requested))
		return
	}

	m.errMsg = ""
	var items []menu.Item
	if node.Loader != nil {
		loaded, err := node.Loader(m.menuContext())
		if err != nil {
			logging.Error(err)
			m.errMsg = fmt.Sprintf("Failed to load %s menu: %v", name, err)
		}
		items = loaded
	}

	title := strings.TrimSpace(headerSegmentCleaner.Replace(node.ID))
	root := newLevel(node.ID, title, items, node)
	m.applyNodeSettings(root)
	m.syncViewport(root)
	m.stack = []*level{root}
	m.rootMenuID = node.ID
	m.rootTitle = cmp.Or(headerSegmentForLevel(root), title, node.ID)
}
