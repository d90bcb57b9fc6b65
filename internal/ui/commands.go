package ui

import (
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/render"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.stopLoading()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(result.Info)
	return nil
}

func (m *Model) handleTextResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.TextResult)
	if !ok {
		return nil
	}
	m.stopLoading()
	m.errMsg = ""
	m.results.showText(result.Title, result.HTML)
	m.focusResults()
	return nil
}

func (m *Model) handleSelectionsChangedMsg(msg tea.Msg) tea.Cmd {
	changed, ok := msg.(menu.SelectionsChanged)
	if !ok {
		return nil
	}
	m.stopLoading()
	m.errMsg = ""
	m.selections.Set(changed.Selections)
	if changed.Info != "" {
		m.setInfo(changed.Info)
	}
	m.refreshSelectionLevels()
	return nil
}

func (m *Model) handleSessionResetMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(menu.SessionReset); !ok {
		return nil
	}
	m.stopLoading()
	m.renderer.ClearPane(render.PaneLexical)
	m.setInfo("Session reset to server defaults.")
	return m.refreshOptionsCmd()
}

// refreshSelectionLevels rebuilds the on-screen levels derived from the
// selection summary.
func (m *Model) refreshSelectionLevels() {
	ctx := m.menuContext()
	for _, id := range []string{"selections", "selections:clear"} {
		lvl := m.findLevelByID(id)
		if lvl == nil {
			continue
		}
		node, ok := m.registry.Find(id)
		if !ok || node.Loader == nil {
			continue
		}
		items, err := node.Loader(ctx)
		if err != nil {
			logging.Error(err)
			continue
		}
		lvl.UpdateItems(items)
		m.syncViewport(lvl)
	}
}

func (m *Model) loadMenuCmd(ctx menu.Context, id, title string, loader menu.Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := loader(ctx)
		if err != nil {
			logging.Error(err)
		}
		return categoryLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

// categoryLoadedMsg mirrors the async loader response.
type categoryLoadedMsg struct {
	id    string
	title string
	items []menu.Item
	err   error
}

// menuContext snapshots what loaders and actions may read. It must be built
// on the UI goroutine.
func (m *Model) menuContext() menu.Context {
	ctx := menu.Context{
		Base:           m.bus.Context(),
		ServerURL:      m.serverURL,
		Selections:     m.selections.Summary(),
		SelectionLinks: m.selections.Links(),
		History:        m.history.Entries(),
	}
	if m.client != nil {
		ctx.Server = m.client
	}
	if m.options != nil {
		ctx.Options = m.options.Registry().Snapshot()
		ctx.VectorMode = m.options.Registry().VectorMode()
	}
	return ctx
}
