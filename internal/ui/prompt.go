package ui

import (
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

type promptResult struct {
	Cmd  tea.Cmd
	Info string
	Err  error
}

// withPrompt centralises the common prompt flow: reset the loading state and
// messages, then execute the provided action. The action can return a
// promptResult to control follow-up behaviour (command to run, informational
// message, or error).
func (m *Model) withPrompt(action func() promptResult) tea.Cmd {
	m.stopLoading()
	m.forceClearInfo()
	m.errMsg = ""
	if action == nil {
		return nil
	}
	result := action()
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		return nil
	}
	if result.Info != "" {
		m.setInfo(result.Info)
	}
	return result.Cmd
}

func (m *Model) handleFormPromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.FormPrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		m.startForm(prompt)
		return promptResult{}
	})
}

func (m *Model) handleChoicePromptMsg(msg tea.Msg) tea.Cmd {
	prompt, ok := msg.(menu.ChoicePrompt)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		items := menu.ChoiceItems(prompt)
		if len(items) == 0 {
			return promptResult{Err: fmt.Errorf("%s has no choices", prompt.Label)}
		}
		node, _ := m.registry.Find("options:choice")
		lvl := newLevel("options:choice", prompt.Label, items, node)
		for i, choice := range prompt.Choices {
			if choice == prompt.Current {
				lvl.Cursor = i
			}
		}
		if parent := m.currentLevel(); parent != nil {
			parent.LastCursor = parent.Cursor
		}
		m.applyNodeSettings(lvl)
		m.syncViewport(lvl)
		m.stack = append(m.stack, lvl)
		return promptResult{}
	})
}

// handlePickListMsg opens a level of server-supplied choices. Enter on an
// entry runs the action of the list's node.
func (m *Model) handlePickListMsg(msg tea.Msg) tea.Cmd {
	list, ok := msg.(menu.PickList)
	if !ok {
		return nil
	}
	return m.withPrompt(func() promptResult {
		if len(list.Items) == 0 {
			return promptResult{Info: "No entries found."}
		}
		node, ok := m.registry.Find(list.Node)
		if !ok {
			return promptResult{Err: fmt.Errorf("unknown menu %q", list.Node)}
		}
		if parent := m.currentLevel(); parent != nil {
			parent.LastCursor = parent.Cursor
		}
		lvl := newLevel(list.Node, list.Title, list.Items, node)
		lvl.Cursor = 0
		m.applyNodeSettings(lvl)
		m.syncViewport(lvl)
		m.stack = append(m.stack, lvl)
		return promptResult{}
	})
}
