package ui

import (
	"github.com/atomicstack/hipparchia-console/internal/backend"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent routes a poll result into the stores and rebuilds the
// levels that display them.
func (m *Model) applyBackendEvent(evt backend.Event) {
	if m.backendState == nil {
		m.backendState = make(map[backend.Kind]error)
	}
	m.backendState[evt.Kind] = evt.Err
	if evt.Err != nil {
		m.backendLastErr = evt.Err.Error()
		return
	}

	res := m.dispatcher.Handle(evt)
	if res.OptionsUpdated {
		m.refreshOptionLevels()
	}
	if res.SelectionsUpdated {
		m.refreshSelectionLevels()
	}

	if warn, _ := m.hasBackendIssue(); !warn {
		m.backendLastErr = ""
	}
}

func (m *Model) hasBackendIssue() (bool, string) {
	for _, err := range m.backendState {
		if err != nil {
			msg := m.backendLastErr
			if msg == "" {
				msg = err.Error()
			}
			return true, msg
		}
	}
	return false, ""
}

type cookieCheckMsg struct {
	enabled bool
}

// checkCookiesCmd reports whether the server's session cookie survived the
// first exchange. Without it every option edit is lost between requests.
func checkCookiesCmd(client Client) tea.Cmd {
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		return cookieCheckMsg{enabled: client.CookiesEnabled()}
	}
}

func (m *Model) handleCookieCheckMsg(msg tea.Msg) tea.Cmd {
	check, ok := msg.(cookieCheckMsg)
	if !ok {
		return nil
	}
	m.cookieBanner = !check.enabled
	if m.cookieBanner {
		events.App.CookiesDisabled(m.serverURL)
	}
	return nil
}
