package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/hipparchia-console/internal/browser"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// paneText shows fragments that are not job output (author info, lists).
const paneText render.Pane = "text"

// panelOrder is the order of the number keys in the results panel.
var panelOrder = []render.Pane{render.PaneResults, render.PaneLexical, render.PaneBrowser, render.PaneImages, paneText}

var panelTitles = map[render.Pane]string{
	render.PaneResults: "Results",
	render.PaneLexical: "Dictionary",
	render.PaneBrowser: "Browser",
	render.PaneImages:  "Images",
	paneText:           "Info",
}

type resultsPanel struct {
	pane      render.Pane
	textTitle string
	textHTML  string
	link      int
	viewport  viewport.Model
}

func newResultsPanel() *resultsPanel {
	return &resultsPanel{link: -1, viewport: viewport.New(0, 0)}
}

func (p *resultsPanel) show(pane render.Pane) {
	if p.pane != pane {
		p.link = -1
	}
	p.pane = pane
	p.viewport.GotoTop()
}

func (p *resultsPanel) showText(title, html string) {
	p.textTitle = title
	p.textHTML = html
	p.show(paneText)
}

func (p *resultsPanel) empty() bool {
	return p.pane == ""
}

func (p *resultsPanel) title(m *Model) string {
	if p.pane == paneText && p.textTitle != "" {
		return p.textTitle
	}
	if p.pane == render.PaneBrowser && m.navigator != nil {
		if pass := m.navigator.Passage(); pass.WorkID != "" {
			return "Browser: " + pass.WorkID
		}
	}
	return panelTitles[p.pane]
}

// panelLinks returns the activatable elements of the pane on screen.
func (m *Model) panelLinks() []render.Link {
	switch m.results.pane {
	case render.PaneResults, render.PaneLexical:
		return m.renderer.Links(m.results.pane)
	}
	return nil
}

// panelBody renders the pane on screen as text of the given width, followed
// by its link list.
func (m *Model) panelBody(width int) string {
	var sections []string
	switch m.results.pane {
	case render.PaneResults:
		for _, pane := range []render.Pane{render.PaneTitle, render.PaneSummary, render.PaneResults} {
			if text := m.renderer.Text(pane, width); text != "" {
				sections = append(sections, text)
			}
		}
		if imgs := m.renderer.Text(render.PaneImages, width); imgs != "" {
			sections = append(sections, imgs)
		}
	case paneText:
		sections = append(sections, render.Text(m.results.textHTML, width))
	default:
		sections = append(sections, m.renderer.Text(m.results.pane, width))
	}
	if links := m.panelLinks(); len(links) > 0 {
		lines := make([]string, 0, len(links)+1)
		lines = append(lines, styled(styles.PanelTitle, "Links (tab to select, enter to follow)"))
		for i, link := range links {
			text := fmt.Sprintf("%2d. %s %s", i+1, link.Action, link.Text)
			if i == m.results.link {
				text = styled(styles.SelectedLink, text)
			} else {
				text = styled(styles.Link, text)
			}
			lines = append(lines, text)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	body := strings.Join(sections, "\n\n")
	if strings.TrimSpace(body) == "" {
		return "(empty)"
	}
	return body
}

func (m *Model) focusResults() {
	if m.results.empty() {
		m.setInfo("Nothing to show yet.")
		return
	}
	m.mode = ModeResults
	events.Panel.Focus(string(m.results.pane))
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	vp := &m.results.viewport
	switch msg.String() {
	case "esc":
		if m.results.pane == render.PaneBrowser && m.navigator != nil {
			m.navigator.Close()
			m.renderer.ClearPane(render.PaneBrowser)
			m.results.pane = ""
		}
		m.mode = ModeMenu
		return nil
	case "ctrl+r", "q":
		m.mode = ModeMenu
		return nil
	case "up", "k":
		vp.LineUp(1)
	case "down", "j":
		vp.LineDown(1)
	case "pgup":
		vp.HalfViewUp()
	case "pgdown", " ":
		vp.HalfViewDown()
	case "home":
		vp.GotoTop()
	case "end":
		vp.GotoBottom()
	case "tab":
		m.cycleLink(1)
	case "shift+tab":
		m.cycleLink(-1)
	case "enter":
		links := m.panelLinks()
		if m.results.link < 0 || m.results.link >= len(links) {
			return nil
		}
		return m.activateLink(links[m.results.link])
	case "left":
		return m.goDirection(browser.Back)
	case "right":
		return m.goDirection(browser.Forward)
	case "1", "2", "3", "4", "5":
		idx := int(msg.Runes[0] - '1')
		m.results.show(panelOrder[idx])
	}
	return nil
}

func (m *Model) cycleLink(delta int) {
	n := len(m.panelLinks())
	if n == 0 {
		return
	}
	next := m.results.link + delta
	switch {
	case next >= n:
		next = 0
	case next < 0:
		next = n - 1
	}
	m.results.link = next
}

func (m *Model) goDirection(d browser.Direction) tea.Cmd {
	if m.navigator == nil || m.results.pane != render.PaneBrowser {
		return nil
	}
	if !m.navigator.Go(d) {
		m.setInfo(fmt.Sprintf("No passage %s.", d))
		return nil
	}
	return m.takePendingBrowse()
}

// activateLink runs the action a pane link stands for.
func (m *Model) activateLink(link render.Link) tea.Cmd {
	events.Panel.Follow(string(m.results.pane), string(link.Action), link.Target)
	if m.client == nil {
		m.errMsg = "not connected"
		return nil
	}
	ctx := m.bus.Context()
	client := m.client
	switch link.Action {
	case render.ActionBrowse:
		return m.browseCmd(menu.BrowseRequest{Locator: link.Target})
	case render.ActionLookup:
		return lexicalCmd(func() (hipparchia.Payload, error) { return client.Lookup(ctx, link.Target) })
	case render.ActionIDLookup:
		return lexicalCmd(func() (hipparchia.Payload, error) { return client.IDLookup(ctx, link.Target) })
	case render.ActionFindByForm:
		author := ""
		if m.navigator != nil {
			author = m.navigator.Passage().AuthorID
		}
		return lexicalCmd(func() (hipparchia.Payload, error) { return client.FindByForm(ctx, link.Target, author) })
	case render.ActionSearch:
		req := menu.JobRequest{
			Request: jobs.Request{Kind: hipparchia.KindSearch, Fields: jobs.Fields{Term: " " + link.Target + " "}},
			Label:   "search " + link.Target,
		}
		return func() tea.Msg { return req }
	case render.ActionDeselect:
		return func() tea.Msg {
			sel, err := client.ClearSelection(ctx, link.Target)
			if err != nil {
				return menu.ActionResult{Err: err}
			}
			return menu.SelectionsChanged{Selections: sel, Info: "Removed " + link.Text}
		}
	}
	m.setInfo(fmt.Sprintf("Nothing to do for %s", link.Text))
	return nil
}

type lexicalMsg struct {
	payload hipparchia.Payload
	err     error
}

func lexicalCmd(fetch func() (hipparchia.Payload, error)) tea.Cmd {
	return func() tea.Msg {
		payload, err := fetch()
		return lexicalMsg{payload: payload, err: err}
	}
}

func (m *Model) handleLexicalMsg(msg tea.Msg) tea.Cmd {
	lex, ok := msg.(lexicalMsg)
	if !ok {
		return nil
	}
	if lex.err != nil {
		m.errMsg = lex.err.Error()
		return nil
	}
	m.renderer.RenderLexical(lex.payload)
	m.results.show(render.PaneLexical)
	m.focusResults()
	return nil
}
