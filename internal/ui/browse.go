package ui

import (
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/render"
	tea "github.com/charmbracelet/bubbletea"
)

type passageMsg struct {
	passage hipparchia.Passage
	err     error
}

func (m *Model) handleBrowseRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(menu.BrowseRequest)
	if !ok {
		return nil
	}
	m.stopLoading()
	return m.browseCmd(req)
}

// browseCmd fetches a passage off the UI goroutine. The navigator is only
// updated once the passage arrives.
func (m *Model) browseCmd(req menu.BrowseRequest) tea.Cmd {
	if m.navigator == nil {
		m.errMsg = "not connected"
		return nil
	}
	nav := m.navigator
	ctx := m.bus.Context()
	spin := m.startLoading("browse", req.Locator)
	return tea.Batch(spin, func() tea.Msg {
		p, err := nav.Fetch(ctx, req.Locator, req.Raw)
		return passageMsg{passage: p, err: err}
	})
}

func (m *Model) handlePassageMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(passageMsg)
	if !ok {
		return nil
	}
	m.stopLoading()
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		return nil
	}
	m.navigator.Apply(loaded.passage)
	m.renderer.RenderPassage(loaded.passage)
	m.results.show(render.PaneBrowser)
	m.focusResults()
	return nil
}

// requestPassage is the navigator's bound action. It runs on the UI
// goroutine from Go, so it only queues the request.
func (m *Model) requestPassage(locator string, raw bool) {
	m.queued = &menu.BrowseRequest{Locator: locator, Raw: raw}
}

func (m *Model) takePendingBrowse() tea.Cmd {
	req := m.queued
	m.queued = nil
	if req == nil {
		return nil
	}
	return m.browseCmd(*req)
}
