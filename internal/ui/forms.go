package ui

import (
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.mode != ModeForm {
		return false, nil
	}
	return m.handleForm(msg)
}

func (m *Model) handleForm(msg tea.Msg) (bool, tea.Cmd) {
	if m.form == nil {
		m.mode = ModeMenu
		return false, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		// async results still route through the handler registry
		return false, nil
	}
	if key.String() == "ctrl+c" {
		return true, tea.Quit
	}
	cmd, done, cancel := m.form.Update(msg)
	if cancel {
		m.form = nil
		m.mode = ModeMenu
		return true, cmd
	}
	if done {
		id := m.form.ID()
		pendingLabel := m.form.PendingLabel()
		m.form = nil
		m.mode = ModeMenu
		if cmd == nil {
			return true, nil
		}
		return true, tea.Batch(m.startLoading(id, pendingLabel), cmd)
	}
	return true, cmd
}

func (m *Model) startForm(prompt menu.FormPrompt) {
	if prompt.Context.Base == nil {
		prompt.Context.Base = m.bus.Context()
	}
	m.form = menu.NewForm(prompt)
	m.mode = ModeForm
}

func (m *Model) viewFormWithHeader(header string) string {
	lines := []string{}
	if header != "" {
		lines = append(lines, styles.Header.Render(header))
	}
	lines = append(lines, m.form.Title(), "")
	lines = append(lines, m.form.InputViews()...)
	if err := m.form.Error(); err != "" {
		lines = append(lines, "", styles.Error.Render(err))
	}
	lines = append(lines, "", styles.Footer.Render(m.form.Help()))
	return strings.Join(lines, "\n")
}
