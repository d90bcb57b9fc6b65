package menu

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func loadSelectionsMenu(ctx Context) ([]Item, error) {
	count := ctx.Selections.Count
	if count < 0 {
		count = 0
	}
	return []Item{
		{ID: "summary", Label: fmt.Sprintf("summary (%d active)", count)},
		{ID: "make", Label: "add a selection"},
		{ID: "find", Label: "find an author, genre, or place"},
		{ID: "clear", Label: fmt.Sprintf("remove selections (%d)", len(ctx.SelectionLinks))},
	}, nil
}

// SelectionsSummaryAction shows the selection summary in the result panel.
func SelectionsSummaryAction(ctx Context, item Item) tea.Cmd {
	s := ctx.Selections
	var b strings.Builder
	for _, part := range []struct{ title, html string }{
		{"Time", s.TimeExclusions},
		{"Selections", s.Selections},
		{"Exclusions", s.Exclusions},
	} {
		if strings.TrimSpace(part.html) == "" {
			continue
		}
		fmt.Fprintf(&b, "<h3>%s</h3>%s", part.title, part.html)
	}
	if b.Len() == 0 {
		b.WriteString("<p>The whole corpus is selected.</p>")
	}
	return msgCmd(TextResult{Title: "Selections", HTML: b.String()})
}

func loadDeselectMenu(ctx Context) ([]Item, error) {
	items := make([]Item, 0, len(ctx.SelectionLinks))
	for _, link := range ctx.SelectionLinks {
		label := strings.TrimSpace(link.Text)
		if label == "" {
			label = link.Target
		}
		items = append(items, Item{ID: link.Target, Label: label})
	}
	return items, nil
}

// DeselectAction clears one selection, or every selected one when the level
// is in multi-select mode.
func DeselectAction(ctx Context, item Item) tea.Cmd {
	paths := strings.FieldsFunc(item.ID, func(r rune) bool { return r == '\n' })
	if len(paths) == 0 {
		return msgCmd(ActionResult{Err: errors.New("nothing to remove")})
	}
	if ctx.Server == nil {
		return msgCmd(ActionResult{Err: errors.New("not connected")})
	}
	return func() tea.Msg {
		var changed SelectionsChanged
		for _, path := range paths {
			sel, err := ctx.Server.ClearSelection(ctx.Ctx(), path)
			if err != nil {
				return ActionResult{Err: err}
			}
			changed.Selections = sel
		}
		changed.Info = fmt.Sprintf("Removed %s", item.Label)
		return changed
	}
}

type selectionShape struct {
	id    string
	label string
	keys  []string
	fixed string
}

var selectionShapes = []selectionShape{
	{id: "author", label: "author", keys: []string{"auth"}},
	{id: "work", label: "work", keys: []string{"auth", "work"}},
	{id: "passage", label: "passage of a work", keys: []string{"auth", "work", "locus"}, fixed: "endpoint="},
	{id: "span", label: "span of a work", keys: []string{"auth", "work", "locus", "endpoint"}},
	{id: "genre", label: "author genre", keys: []string{"genre"}},
	{id: "wkgenre", label: "work genre", keys: []string{"wkgenre"}},
	{id: "auloc", label: "author location", keys: []string{"auloc"}},
	{id: "wkprov", label: "work provenance", keys: []string{"wkprov"}},
	{id: "exclude-author", label: "exclude an author", keys: []string{"auth"}, fixed: "exclude=t"},
	{id: "exclude-work", label: "exclude a work", keys: []string{"auth", "work"}, fixed: "exclude=t"},
}

var selectionFieldLabels = map[string]FormField{
	"auth":     {Key: "auth", Label: "author", Placeholder: "gr0012"},
	"work":     {Key: "work", Label: "work", Placeholder: "001"},
	"locus":    {Key: "locus", Label: "from", Placeholder: "1|1"},
	"endpoint": {Key: "endpoint", Label: "to", Placeholder: "1|100"},
	"genre":    {Key: "genre", Label: "genre", Placeholder: "Epici/-ae"},
	"wkgenre":  {Key: "wkgenre", Label: "work genre", Placeholder: "Epic."},
	"auloc":    {Key: "auloc", Label: "author location", Placeholder: "Alexandria"},
	"wkprov":   {Key: "wkprov", Label: "work provenance", Placeholder: "Attica"},
}

func findShape(id string) (selectionShape, bool) {
	for _, s := range selectionShapes {
		if s.id == id {
			return s, true
		}
	}
	return selectionShape{}, false
}

func loadMakeSelectionMenu(Context) ([]Item, error) {
	items := make([]Item, 0, len(selectionShapes))
	for _, s := range selectionShapes {
		items = append(items, Item{ID: s.id, Label: s.label})
	}
	return items, nil
}

func MakeSelectionAction(ctx Context, item Item) tea.Cmd {
	shape, ok := findShape(item.ID)
	if !ok {
		return msgCmd(ActionResult{Err: fmt.Errorf("unknown selection type %q", item.ID)})
	}
	fields := make([]FormField, 0, len(shape.keys))
	for _, k := range shape.keys {
		fields = append(fields, selectionFieldLabels[k])
	}
	return promptCmd(FormPrompt{
		ID:      "selections:make",
		Title:   "Select " + shape.label,
		Target:  shape.id,
		Fields:  fields,
		Context: ctx,
	})
}

// selectionQuery builds the raw query for /selection/make/_ in the order the
// server documents: auth, work, locus, endpoint, then any fixed suffix.
// Every field of the shape is required.
func selectionQuery(shape selectionShape, values map[string]string) (string, error) {
	parts := make([]string, 0, len(shape.keys)+1)
	for _, k := range shape.keys {
		v := strings.TrimSpace(values[k])
		if v == "" {
			return "", fmt.Errorf("%s required", selectionFieldLabels[k].Label)
		}
		parts = append(parts, k+"="+url.QueryEscape(v))
	}
	if shape.fixed != "" {
		parts = append(parts, shape.fixed)
	}
	return strings.Join(parts, "&"), nil
}

func submitMakeSelection(ctx Context, target string, values map[string]string) (tea.Cmd, error) {
	shape, ok := findShape(target)
	if !ok {
		return nil, fmt.Errorf("unknown selection type %q", target)
	}
	query, err := selectionQuery(shape, values)
	if err != nil {
		return nil, err
	}
	if ctx.Server == nil {
		return nil, errors.New("not connected")
	}
	return func() tea.Msg {
		sel, err := ctx.Server.MakeSelection(ctx.Ctx(), query)
		if err != nil {
			return ActionResult{Err: err}
		}
		return SelectionsChanged{Selections: sel, Info: "Selected " + query}
	}, nil
}
