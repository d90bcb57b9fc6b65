package render

// Pane names a display region.
type Pane string

const (
	PaneTitle   Pane = "title"
	PaneSummary Pane = "summary"
	PaneResults Pane = "results"
	PaneImages  Pane = "images"
	PaneLexical Pane = "lexical"
	PaneBrowser Pane = "browser"
)

// Panes lists every pane in display order.
func Panes() []Pane {
	return []Pane{PaneTitle, PaneSummary, PaneResults, PaneImages, PaneLexical, PaneBrowser}
}

// resultPanes are cleared before a job's payload is rendered.
var resultPanes = []Pane{PaneTitle, PaneSummary, PaneResults}
