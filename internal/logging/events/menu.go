package events

type MenuTracer struct{}

type FilterTracer struct{}

type PanelTracer struct{}

var (
	Menu   = MenuTracer{}
	Filter = FilterTracer{}
	Panel  = PanelTracer{}
)

// Enter records a choice on a menu level, with the filter that was active.
func (MenuTracer) Enter(levelID, itemID, label, filter string) {
	emit("menu.enter", "level", levelID, "item", itemID, "label", label, "filter", filter)
}

func (MenuTracer) Cursor(levelID string, cursor int) {
	emit("menu.cursor", "level", levelID, "cursor", cursor)
}

// Edit records a change to a level's filter; op names the key that made it.
func (FilterTracer) Edit(levelID, op, filter string) {
	emit("filter."+op, "level", levelID, "filter", filter)
}

func (FilterTracer) Cursor(levelID string, pos int, byWord bool) {
	emit("filter.cursor", "level", levelID, "cursor", pos, "word", byWord)
}

func (PanelTracer) Focus(pane string) {
	emit("panel.focus", "pane", pane)
}

func (PanelTracer) Follow(pane, action, target string) {
	emit("panel.link", "pane", pane, "action", action, "target", target)
}
