package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	panelMinWidth      = 40  // minimum cols for the side panel; below this no split
	panelFraction      = 0.6 // fraction of total width given to the side panel
	panelDefaultHeight = 24  // used until the terminal reports a size
	mouseScrollLines   = 3
)

const (
	menuFooter       = "↑/↓ move  enter select  tab mark  ←/→ adjust  ctrl+r results  ctrl+x abandon  esc back  ctrl+c quit"
	resultsFooter    = "↑/↓ scroll  tab link  enter follow  ←/→ passage  1-5 pane  esc close  q menu"
	cookieBannerText = "Cookies are disabled: option changes will not persist"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// hasSidePanel reports whether the results panel should sit to the right of
// the menu.
func (m *Model) hasSidePanel() bool {
	if m.results == nil || m.results.empty() {
		return false
	}
	return m.sidePanelWidth() > 0
}

// sidePanelWidth returns 0 when the terminal is too narrow to split.
func (m *Model) sidePanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * panelFraction)
	if w < panelMinWidth {
		return 0
	}
	return w
}

func (m *Model) menuColumnWidth() int {
	return m.width - m.sidePanelWidth()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.menuHeader()
	switch m.mode {
	case ModeForm:
		if m.form != nil {
			return m.viewFormWithHeader(header)
		}
	case ModeResults:
		if !m.results.empty() {
			return m.viewResults()
		}
	}
	if m.hasSidePanel() {
		return m.viewSideBySide(header)
	}
	return m.viewVertical(header)
}

// menuLines renders the header, visible items, info and footer of the
// current level at the given width.
func (m *Model) menuLines(header string, width int) []styledLine {
	lines := make([]styledLine, 0, 16)
	if m.cookieBanner {
		lines = append(lines, styledLine{text: cookieBannerText, style: styles.Banner})
	}
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
		start := 0
		displayItems := current.Items
		if maxItems := m.maxVisibleItems(); maxItems > 0 && len(displayItems) > maxItems {
			start = max(current.ViewportOffset, 0)
			if start+maxItems > len(displayItems) {
				start = max(len(displayItems)-maxItems, 0)
				current.ViewportOffset = start
			}
			displayItems = displayItems[start : start+maxItems]
		}
		if len(current.Items) == 0 {
			msg := "(no entries)"
			if current.Filter != "" {
				msg = fmt.Sprintf("No matches for %q", current.Filter)
			}
			lines = append(lines, styledLine{text: msg, style: styles.Info})
		} else {
			for i, item := range displayItems {
				lines = append(lines, m.buildItemLine(item.ID, item.Label, start+i, current, width))
			}
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: menuFooter, style: styles.Footer})
	}
	return lines
}

// viewVertical is the single-column layout used when the terminal is too
// narrow for the side panel.
func (m *Model) viewVertical(header string) string {
	lines := m.menuLines(header, m.width)
	if !m.results.empty() {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: fmt.Sprintf("[%s] ctrl+r to open", m.results.title(m)), style: styles.PanelTitle})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	lines = append(lines, m.bottomBar()...)
	return renderLines(lines)
}

// viewSideBySide renders the menu on the left and the results panel on the
// right.
func (m *Model) viewSideBySide(header string) string {
	menuW := m.menuColumnWidth()
	panelW := m.sidePanelWidth()
	const bottomBarRows = 2

	contentLines := m.menuLines(header, menuW)
	panelH := m.panelHeight(bottomBarRows)
	if len(contentLines) > panelH {
		contentLines = contentLines[:panelH]
	}
	for len(contentLines) < panelH {
		contentLines = append(contentLines, styledLine{})
	}
	contentLines = applyWidth(contentLines, menuW)
	leftRows := strings.Split(renderLines(contentLines), "\n")
	for i, row := range leftRows {
		leftRows[i] = fitWidth(row, menuW)
	}
	leftStr := strings.Join(leftRows, "\n")

	rightStr := m.renderPanel(panelW, panelH)
	topSection := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)
	return topSection + "\n" + renderLines(m.bottomBar())
}

// viewResults gives the whole screen to the results panel.
func (m *Model) viewResults() string {
	const bottomBarRows = 2
	width := m.width
	if width <= 0 {
		width = 80
	}
	panel := m.renderPanel(width, m.panelHeight(bottomBarRows))
	footer := styledLine{text: resultsFooter, style: styles.Footer}
	if !m.showFooter {
		footer = styledLine{}
	}
	bottom := applyWidth([]styledLine{m.statusLine(), footer}, m.width)
	return panel + "\n" + renderLines(bottom)
}

func (m *Model) panelHeight(reserved int) int {
	height := m.height
	if height <= 0 {
		height = panelDefaultHeight
	}
	return max(height-reserved, 3)
}

// statusLine shows, in order of precedence, the last error, the progress
// of the running job, and the loading spinner.
func (m *Model) statusLine() styledLine {
	if m.errMsg != "" {
		return styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	}
	if text := m.progressLine(); text != "" {
		return styledLine{text: m.spinner.View() + " " + text, style: styles.Progress}
	}
	if m.loading {
		label := m.pendingLabel
		if label == "" {
			label = "Loading…"
		}
		return styledLine{text: m.spinner.View() + " " + label, style: styles.Loading}
	}
	if warn, msg := m.hasBackendIssue(); warn {
		return styledLine{text: "Server: " + msg, style: styles.Error}
	}
	return styledLine{}
}

func (m *Model) bottomBar() []styledLine {
	return applyWidth([]styledLine{m.statusLine(), {text: m.filterPrompt()}}, m.width)
}

// buildItemLine constructs a single styledLine for a menu item.
// width is the target column width; when > 0 the text is padded so that
// the selected item's background spans the full container.
func (m *Model) buildItemLine(id, label string, idx int, current *level, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	selectDisplay := ""
	if current.MultiSelect {
		mark := " "
		if current.IsSelected(id) {
			mark = "✓"
		}
		selectDisplay = fmt.Sprintf("[%s] ", mark)
	}
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + selectDisplay + label
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

// renderPanel builds the bordered results box with exactly height rows and
// totalWidth columns. The box body scrolls through the panel viewport.
func (m *Model) renderPanel(totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	innerW := max(totalWidth-2, 1)
	innerH := max(height-2, 1)

	vp := &m.results.viewport
	vp.Width = innerW
	vp.Height = innerH
	vp.SetContent(m.panelBody(innerW))

	scrollInfo := ""
	if total := vp.TotalLineCount(); total > innerH {
		scrollInfo = fmt.Sprintf(" %d/%d ", min(vp.YOffset+innerH, total), total)
	}

	titleSeg := " " + m.panelTabs() + " "
	dashes := totalWidth - 4 - lipgloss.Width(titleSeg) - len([]rune(scrollInfo))
	if dashes < 0 {
		scrollInfo = ""
		dashes = totalWidth - 4 - lipgloss.Width(titleSeg)
	}
	if dashes < 0 {
		titleSeg = " " + m.results.title(m) + " "
		dashes = totalWidth - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		titleSeg = " … "
		dashes = max(totalWidth-4-len([]rune(titleSeg)), 0)
	}
	border := func(s string) string { return styled(styles.PanelBorder, s) }
	topLine := border(tlc+hz) + titleSeg + border(strings.Repeat(hz, dashes)) +
		styled(styles.PanelScroll, scrollInfo) + border(hz+trc)
	bottomLine := border(blc + strings.Repeat(hz, innerW) + brc)

	body := strings.Split(vp.View(), "\n")
	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(body) {
			content = body[i]
		}
		rows = append(rows, border(vt)+fitWidth(content, innerW)+border(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}

// panelTabs names every pane, highlighting the one on screen.
func (m *Model) panelTabs() string {
	parts := make([]string, 0, len(panelOrder))
	for i, pane := range panelOrder {
		label := fmt.Sprintf("%d %s", i+1, panelTitles[pane])
		if pane == m.results.pane {
			label = styled(styles.PanelTitle, fmt.Sprintf("%d %s", i+1, m.results.title(m)))
		} else {
			label = styled(styles.PanelScroll, label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// fitWidth pads or truncates an ANSI-styled row to exactly width columns.
func fitWidth(row string, width int) string {
	w := lipgloss.Width(row)
	switch {
	case w > width:
		return truncate.StringWithTail(row, uint(max(width-1, 0)), "…")
	case w < width:
		return row + strings.Repeat(" ", width-w)
	}
	return row
}

// handleMouseMsg scrolls the results panel with the wheel.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeResults && !m.hasSidePanel() {
		return nil
	}
	switch ev.Button {
	case tea.MouseButtonWheelUp:
		m.results.viewport.LineUp(mouseScrollLines)
	case tea.MouseButtonWheelDown:
		m.results.viewport.LineDown(mouseScrollLines)
	}
	return nil
}

func (m *Model) menuHeader() string {
	segments := m.headerSegments()
	if len(segments) == 0 {
		return ""
	}
	return strings.Join(segments, menuHeaderSeparator)
}

func (m *Model) headerSegments() []string {
	depth := len(m.stack)
	if depth == 0 {
		return nil
	}
	root := strings.TrimSpace(m.rootTitle)
	if root == "" {
		root = defaultRootTitle
	}
	if depth == 1 {
		return []string{root}
	}
	segments := make([]string, 0, depth)
	if m.rootMenuID != "" {
		segments = append(segments, root)
	}
	for i := 1; i < depth; i++ {
		segment := headerSegmentForLevel(m.stack[i])
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	if len(segments) == 0 {
		return []string{root}
	}
	return segments
}

func headerSegmentForLevel(l *level) string {
	if l == nil {
		return ""
	}
	candidate := strings.TrimSpace(l.ID)
	if candidate == "" {
		candidate = strings.TrimSpace(l.Title)
	}
	if candidate == "" {
		return ""
	}
	if idx := strings.LastIndex(candidate, ":"); idx >= 0 {
		candidate = candidate[idx+1:]
	}
	candidate = strings.TrimSpace(headerSegmentCleaner.Replace(candidate))
	fields := strings.Fields(strings.ToLower(candidate))
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.renderer.Resize(m.width, m.height)
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // bottom bar: status + filter prompt
	if header := m.menuHeader(); header != "" {
		used++
	}
	if m.cookieBanner {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	if !m.hasSidePanel() && m.results != nil && !m.results.empty() {
		used += 2 // blank + results hint
	}
	return max(m.height-used, 1)
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) clearInfo() {
	if m.infoMsg == "" {
		return
	}
	if !m.infoExpire.IsZero() && time.Now().Before(m.infoExpire) {
		return
	}
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
