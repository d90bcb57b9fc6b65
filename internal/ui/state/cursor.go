package state

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// moveCursorTo puts the cursor on idx, clamped to the visible items, and
// reports whether it moved. An empty level parks the cursor at zero.
func (l *Level) moveCursorTo(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(idx, 0, len(l.Items)-1)
	return l.Cursor != old
}

// MoveCursorHome moves to the first item.
func (l *Level) MoveCursorHome() bool { return l.moveCursorTo(0) }

// MoveCursorEnd moves to the last item.
func (l *Level) MoveCursorEnd() bool { return l.moveCursorTo(len(l.Items) - 1) }

// MoveCursorPageUp moves up by one page of rows.
func (l *Level) MoveCursorPageUp(rows int) bool {
	return l.moveCursorTo(max(l.Cursor, 0) - l.page(rows))
}

// MoveCursorPageDown moves down by one page of rows.
func (l *Level) MoveCursorPageDown(rows int) bool {
	return l.moveCursorTo(max(l.Cursor, 0) + l.page(rows))
}

// page is the step for one page; a non-positive or oversized row count means
// the whole list.
func (l *Level) page(rows int) int {
	if rows <= 0 || rows > len(l.Items) {
		return len(l.Items)
	}
	return rows
}

// EnsureCursorVisible scrolls the viewport the least amount that keeps the
// cursor within rows lines.
func (l *Level) EnsureCursorVisible(rows int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, n-1)
	if rows <= 0 {
		l.ViewportOffset = 0
		return
	}
	top := clamp(l.ViewportOffset, 0, max(n-rows, 0))
	switch {
	case l.Cursor < top:
		top = l.Cursor
	case l.Cursor >= top+rows:
		top = l.Cursor - rows + 1
	}
	l.ViewportOffset = top
}
