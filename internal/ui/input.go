package ui

import (
	"unicode"

	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const filterPromptText = "» "

var levelPlaceholders = map[string]string{
	"options":          "(type to find an option)",
	"options:choice":   "(type to find a choice)",
	"history":          "(type to find a job)",
	"selections:clear": "(type to find a selection)",
}

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// cursorMoves are filter editing keys that only move the caret.
var cursorMoves = map[string]struct {
	move func(*level) bool
	word bool
}{
	"ctrl+a": {move: (*level).MoveFilterCursorStart},
	"ctrl+e": {move: (*level).MoveFilterCursorEnd},
	"alt+b":  {move: (*level).MoveFilterCursorWordBackward, word: true},
	"alt+f":  {move: (*level).MoveFilterCursorWordForward, word: true},
	"left":   {move: (*level).MoveFilterCursorRuneBackward},
	"right":  {move: (*level).MoveFilterCursorRuneForward},
}

// handleTextInput applies msg to the current level's filter and reports
// whether it was consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	if m.loading {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	key := msg.String()
	if mv, ok := cursorMoves[key]; ok {
		before := current.FilterCursorPos()
		if !mv.move(current) {
			return false
		}
		m.noteFilterCursorChange(current, before)
		events.Filter.Cursor(current.ID, current.FilterCursor, mv.word)
		return true
	}
	switch key {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		before := current.FilterCursorPos()
		current.SetFilter("", 0)
		m.afterFilterEdit(current, before)
		events.Filter.Edit(current.ID, "clear", "")
		return true
	case "ctrl+w":
		before := current.FilterCursorPos()
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.afterFilterEdit(current, before)
		events.Filter.Edit(current.ID, "word-backspace", current.Filter)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune()
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	}
	return false
}

func (m *Model) afterFilterEdit(current *level, before int) {
	m.noteFilterCursorChange(current, before)
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport(current)
}

func (m *Model) appendToFilter(text string) bool {
	if text == "" {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.InsertFilterText(text) {
		return false
	}
	m.afterFilterEdit(current, before)
	events.Filter.Edit(current.ID, "append", current.Filter)
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.afterFilterEdit(current, before)
	events.Filter.Edit(current.ID, "backspace", current.Filter)
	return true
}

func styled(style *lipgloss.Style, value string) string {
	if style == nil || value == "" {
		return value
	}
	return style.Render(value)
}

func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	prompt := styled(styles.FilterPrompt, filterPromptText)
	if current == nil {
		return prompt
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	runes := []rune(current.Filter)
	if len(runes) == 0 {
		placeholder := []rune(placeholderFor(current.ID))
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(string(placeholder[:1]))
		return prompt + caret + styled(styles.FilterPlaceholder, string(placeholder[1:]))
	}
	pos := min(max(current.FilterCursorPos(), 0), len(runes))
	caretRune, after := " ", ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = styled(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + styled(styles.Filter, string(runes[:pos])) + m.renderFilterCursor(caretRune) + after
}

func placeholderFor(levelID string) string {
	if p, ok := levelPlaceholders[levelID]; ok {
		return p
	}
	return "(type to filter)"
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
