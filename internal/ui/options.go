package ui

import (
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// optionsSyncedMsg reports the end of a push. values is set when the server
// mapping was re-read and must be applied.
type optionsSyncedMsg struct {
	values hipparchia.Options
	err    error
}

func (m *Model) handleOptionEditMsg(msg tea.Msg) tea.Cmd {
	edit, ok := msg.(menu.OptionEdit)
	if !ok {
		return nil
	}
	m.stopLoading()
	if m.options == nil {
		m.errMsg = "not connected"
		return nil
	}
	edits, err := m.options.Stage(edit.Edit)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	if current := m.currentLevel(); current != nil && current.ID == "options:choice" {
		m.handleEscapeKey()
	}
	m.refreshOptionLevels()
	return m.pushOptionsCmd(edits)
}

// pushOptionsCmd queues edits for upstream delivery and, when one of them
// changes the corpus, reloads the selection summary and the option mapping.
// The queue slot is taken here, on the update loop, so pushes keep edit order
// even though commands run concurrently.
func (m *Model) pushOptionsCmd(edits []session.Edit) tea.Cmd {
	sync := m.options
	ctx := m.bus.Context()
	push := sync.Enqueue(ctx, edits)
	return func() tea.Msg {
		if !push() {
			return optionsSyncedMsg{}
		}
		values, err := sync.Cascade(ctx)
		return optionsSyncedMsg{values: values, err: err}
	}
}

func (m *Model) refreshOptionsCmd() tea.Cmd {
	if m.options == nil {
		return nil
	}
	sync := m.options
	ctx := m.bus.Context()
	return func() tea.Msg {
		values, err := sync.Cascade(ctx)
		return optionsSyncedMsg{values: values, err: err}
	}
}

func (m *Model) handleOptionsSyncedMsg(msg tea.Msg) tea.Cmd {
	synced, ok := msg.(optionsSyncedMsg)
	if !ok {
		return nil
	}
	if synced.err != nil {
		m.errMsg = synced.err.Error()
		return nil
	}
	if synced.values != nil {
		m.options.Apply(synced.values)
		m.refreshOptionLevels()
		m.refreshSelectionLevels()
	}
	return nil
}

func (m *Model) refreshOptionLevels() {
	if m.options == nil {
		return
	}
	if lvl := m.findLevelByID("options"); lvl != nil {
		lvl.UpdateItems(menu.OptionItems(m.options.Registry().Snapshot()))
		m.syncViewport(lvl)
	}
}

// stepSpinner moves the option under the cursor by one step: spinners go up
// or down, selectors advance to their next choice.
func (m *Model) stepSpinner(delta int) tea.Cmd {
	current := m.currentLevel()
	if m.options == nil || current == nil || current.ID != "options" || len(current.Items) == 0 {
		return nil
	}
	key := current.Items[current.Cursor].ID
	reg := m.options.Registry()
	if sp, ok := reg.Spinner(key); ok {
		next := sp.Increment()
		if delta < 0 {
			next = sp.Decrement()
		}
		if next == sp.Value {
			return nil
		}
		return m.handleOptionEditMsg(menu.OptionEdit{Edit: session.NumberEdit(key, next)})
	}
	if sel, ok := reg.Selector(key); ok && delta > 0 {
		return m.handleOptionEditMsg(menu.OptionEdit{Edit: session.ChoiceEdit(key, sel.Next())})
	}
	return nil
}
