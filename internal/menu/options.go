package menu

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/format/table"
	"github.com/atomicstack/hipparchia-console/internal/session"
)

func loadOptionsMenu(ctx Context) ([]Item, error) {
	return OptionItems(ctx.Options), nil
}

// OptionItems renders the option snapshot as an aligned label/value table.
func OptionItems(entries []session.Entry) []Item {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Label, e.Display, kindHint(e.Kind)})
	}
	aligned := table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignRight, table.AlignLeft})
	items := make([]Item, len(aligned))
	for i, label := range aligned {
		items[i] = Item{ID: entries[i].Key, Label: label}
	}
	return items
}

func kindHint(k session.Kind) string {
	switch k {
	case session.KindSpinner:
		return "#"
	case session.KindSelector:
		return "…"
	}
	return ""
}

func findOption(entries []session.Entry, key string) (session.Entry, bool) {
	for _, e := range entries {
		if e.Key == key {
			return e, true
		}
	}
	return session.Entry{}, false
}

// OptionAction flips toggles and pairs, and prompts for spinner and selector
// values.
func OptionAction(ctx Context, item Item) tea.Cmd {
	entry, ok := findOption(ctx.Options, item.ID)
	if !ok {
		return msgCmd(ActionResult{Err: fmt.Errorf("unknown option %q", item.ID)})
	}
	switch entry.Kind {
	case session.KindToggle, session.KindPair:
		return msgCmd(OptionEdit{Edit: session.ToggleEdit(entry.Key, entry.Value != "yes")})
	case session.KindSpinner:
		return promptCmd(FormPrompt{
			ID:      "options:number",
			Title:   entry.Label,
			Help:    fmt.Sprintf("Between %d and %d. Enter to set. Esc to cancel.", entry.Min, entry.Max),
			Target:  entry.Key,
			Fields:  []FormField{{Key: "value", Label: "value", Initial: entry.Value}},
			Context: ctx,
		})
	case session.KindSelector:
		return msgCmd(ChoicePrompt{
			Key:     entry.Key,
			Label:   entry.Label,
			Choices: append([]string(nil), entry.Choices...),
			Current: entry.Value,
		})
	}
	return msgCmd(ActionResult{Err: fmt.Errorf("option %q cannot be edited", item.ID)})
}

// ChoiceItems lists a selector's choices with the current one marked.
func ChoiceItems(p ChoicePrompt) []Item {
	items := make([]Item, 0, len(p.Choices))
	for _, c := range p.Choices {
		label := prettyLabel(c)
		if c == p.Current {
			label = "[current] " + label
		}
		items = append(items, Item{ID: p.Key + "=" + c, Label: label})
	}
	return items
}

func OptionChoiceAction(ctx Context, item Item) tea.Cmd {
	key, value, ok := strings.Cut(item.ID, "=")
	if !ok || key == "" {
		return msgCmd(ActionResult{Err: fmt.Errorf("invalid choice %q", item.ID)})
	}
	return msgCmd(OptionEdit{Edit: session.ChoiceEdit(key, value)})
}

func submitNumber(ctx Context, key string, values map[string]string) (tea.Cmd, error) {
	raw := strings.TrimSpace(values["value"])
	if raw == "" {
		return nil, errors.New("value required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", raw)
	}
	if entry, ok := findOption(ctx.Options, key); ok && (v < entry.Min || v > entry.Max) {
		return nil, fmt.Errorf("must be between %d and %d", entry.Min, entry.Max)
	}
	return msgCmd(OptionEdit{Edit: session.NumberEdit(key, v)}), nil
}
