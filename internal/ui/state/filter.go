package state

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SetFilter replaces the query and puts the filter cursor at the given rune
// offset. Starting a query remembers the item cursor and jumps to the best
// match; clearing it returns to the remembered item.
func (l *Level) SetFilter(query string, cursor int) {
	was := strings.TrimSpace(l.Filter) != ""
	now := strings.TrimSpace(query) != ""
	if now && !was {
		l.LastCursor = l.Cursor
	}
	l.Filter = query
	l.FilterCursor = clamp(cursor, 0, utf8.RuneCountInString(query))
	if now {
		l.Cursor = 0
	}
	restore := l.LastCursor
	l.applyFilter()

	switch {
	case now:
		if idx := BestMatchIndex(l.Items, query); idx >= 0 {
			l.Cursor = idx
		}
	case was:
		if restore >= 0 && restore < len(l.Items) {
			l.Cursor = restore
		} else if len(l.Items) > 0 {
			l.Cursor = len(l.Items) - 1
		}
		l.LastCursor = -1
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	if l.Cursor < 0 || l.Cursor >= n {
		l.Cursor = n - 1
	}
	if l.ViewportOffset >= n {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the filter cursor clamped to the query.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, utf8.RuneCountInString(l.Filter))
}

// editFilter rewrites the query around the filter cursor. edit receives the
// runes on either side of the cursor and returns their replacements; the
// cursor lands between them.
func (l *Level) editFilter(edit func(before, after []rune) ([]rune, []rune)) bool {
	text := []rune(l.Filter)
	pos := l.FilterCursorPos()
	before, after := edit(slices.Clone(text[:pos]), text[pos:])
	query := string(before) + string(after)
	if query == l.Filter {
		return false
	}
	l.SetFilter(query, len(before))
	return true
}

func (l *Level) moveFilterCursor(pos int) bool {
	pos = clamp(pos, 0, utf8.RuneCountInString(l.Filter))
	if pos == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = pos
	return true
}

// wordStart is where the word ending at the end of text begins, trailing
// blanks included.
func wordStart(text []rune) int {
	i := len(text)
	for i > 0 && unicode.IsSpace(text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	return i
}

// wordEnd is the length of the word that opens text plus the blanks after it.
func wordEnd(text []rune) int {
	i := 0
	for i < len(text) && !unicode.IsSpace(text[i]) {
		i++
	}
	for i < len(text) && unicode.IsSpace(text[i]) {
		i++
	}
	return i
}

// InsertFilterText types text at the filter cursor.
func (l *Level) InsertFilterText(text string) bool {
	return l.editFilter(func(before, after []rune) ([]rune, []rune) {
		return append(before, []rune(text)...), after
	})
}

// DeleteFilterRuneBackward is backspace.
func (l *Level) DeleteFilterRuneBackward() bool {
	return l.editFilter(func(before, after []rune) ([]rune, []rune) {
		if len(before) == 0 {
			return before, after
		}
		return before[:len(before)-1], after
	})
}

// DeleteFilterWordBackward is ctrl+w.
func (l *Level) DeleteFilterWordBackward() bool {
	return l.editFilter(func(before, after []rune) ([]rune, []rune) {
		return before[:wordStart(before)], after
	})
}

func (l *Level) MoveFilterCursorStart() bool { return l.moveFilterCursor(0) }

func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveFilterCursor(utf8.RuneCountInString(l.Filter))
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() - 1)
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() + 1)
}

func (l *Level) MoveFilterCursorWordBackward() bool {
	text := []rune(l.Filter)
	return l.moveFilterCursor(wordStart(text[:l.FilterCursorPos()]))
}

func (l *Level) MoveFilterCursorWordForward() bool {
	text := []rune(l.Filter)
	pos := l.FilterCursorPos()
	return l.moveFilterCursor(pos + wordEnd(text[pos:]))
}
