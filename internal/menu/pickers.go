package menu

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
)

// PickList asks the UI to open a level of server-supplied choices. Choosing
// an entry runs the action of the node named by Node.
type PickList struct {
	Node  string
	Title string
	Items []Item
}

const selectPrefix = "select:"

type finder struct {
	kind  hipparchia.HintKind
	label string
	node  string
	shape string
}

// finders are the hint sources offered under selections. Author hits lead to
// the works picker; the others select their value directly through shape.
var finders = []finder{
	{kind: hipparchia.HintAuthor, label: "author", node: "selections:hits:author"},
	{kind: hipparchia.HintAuthorGenre, label: "author genre", node: "selections:hits:authgenre", shape: "genre"},
	{kind: hipparchia.HintWorkGenre, label: "work genre", node: "selections:hits:workgenre", shape: "wkgenre"},
	{kind: hipparchia.HintAuthorLocation, label: "author location", node: "selections:hits:authlocation", shape: "auloc"},
	{kind: hipparchia.HintWorkLocation, label: "work provenance", node: "selections:hits:worklocation", shape: "wkprov"},
}

func findFinder(kind string) (finder, bool) {
	for _, f := range finders {
		if string(f.kind) == kind {
			return f, true
		}
	}
	return finder{}, false
}

func loadFindMenu(Context) ([]Item, error) {
	items := make([]Item, 0, len(finders))
	for _, f := range finders {
		items = append(items, Item{ID: string(f.kind), Label: "find by " + f.label})
	}
	return items, nil
}

// FindAction asks for the start of a name to complete.
func FindAction(ctx Context, item Item) tea.Cmd {
	f, ok := findFinder(item.ID)
	if !ok {
		return msgCmd(ActionResult{Err: fmt.Errorf("unknown hint source %q", item.ID)})
	}
	return promptCmd(FormPrompt{
		ID:      "selections:find",
		Title:   "Find " + f.label,
		Target:  string(f.kind),
		Fields:  []FormField{{Key: "term", Label: f.label, Placeholder: "at least two letters"}},
		Context: ctx,
	})
}

func hintTerm(values map[string]string) (string, error) {
	term := strings.TrimSpace(values["term"])
	if utf8.RuneCountInString(term) < hipparchia.MinHintTerm {
		return "", fmt.Errorf("type at least %d letters", hipparchia.MinHintTerm)
	}
	return term, nil
}

func submitFind(ctx Context, target string, values map[string]string) (tea.Cmd, error) {
	f, ok := findFinder(target)
	if !ok {
		return nil, fmt.Errorf("unknown hint source %q", target)
	}
	term, err := hintTerm(values)
	if err != nil {
		return nil, err
	}
	if ctx.Server == nil {
		return nil, errors.New("not connected")
	}
	return func() tea.Msg {
		hints, err := ctx.Server.Hints(ctx.Ctx(), f.kind, term)
		if err != nil {
			return ActionResult{Err: err}
		}
		if len(hints) == 0 {
			return ActionResult{Info: fmt.Sprintf("No %s matches %q", f.label, term)}
		}
		items := make([]Item, 0, len(hints))
		for _, h := range hints {
			id := h
			if f.kind == hipparchia.HintAuthor {
				if _, authorID := hipparchia.SplitHint(h); authorID != "" {
					id = authorID
				}
			}
			items = append(items, Item{ID: id, Label: h})
		}
		return PickList{Node: f.node, Title: fmt.Sprintf("%s: %s", f.label, term), Items: items}
	}, nil
}

// PickAuthorAction lists the works of the chosen author, headed by an entry
// that selects the author as a whole.
func PickAuthorAction(ctx Context, item Item) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		works, err := ctx.Server.WorksOf(ctx.Ctx(), item.ID)
		if err != nil {
			return ActionResult{Err: err}
		}
		name, _ := hipparchia.SplitHint(item.Label)
		items := []Item{{ID: item.ID, Label: "all works of " + name}}
		for _, w := range works {
			_, wid := hipparchia.SplitHint(w)
			num := strings.TrimPrefix(wid, "w")
			if num == "" {
				continue
			}
			items = append(items, Item{ID: item.ID + "/" + num, Label: w})
		}
		return PickList{Node: "selections:hits:works", Title: name, Items: items}
	})
}

// PickWorkAction selects an author outright, or opens the citation levels of
// a chosen work.
func PickWorkAction(ctx Context, item Item) tea.Cmd {
	if !strings.Contains(item.ID, "/") {
		return selectLocus(ctx, item.ID)
	}
	return pickStructure(ctx, item.ID, item.Label)
}

// PickPassageAction selects a marked entry, or descends one citation level.
func PickPassageAction(ctx Context, item Item) tea.Cmd {
	if locus, ok := strings.CutPrefix(item.ID, selectPrefix); ok {
		return selectLocus(ctx, locus)
	}
	return pickStructure(ctx, item.ID, item.Label)
}

func pickStructure(ctx Context, locus, title string) tea.Cmd {
	return withServer(ctx, func() tea.Msg {
		lvl, err := ctx.Server.WorkStructure(ctx.Ctx(), locus)
		if errors.Is(err, hipparchia.ErrNoStructure) {
			return selectLocus(ctx, locus)()
		}
		if err != nil {
			return ActionResult{Err: err}
		}
		return PickList{Node: "selections:hits:passage", Title: title, Items: structureItems(locus, lvl)}
	})
}

// structureItems lists the values of lvl beneath prefix. The first entry
// selects prefix itself; values at the lowest level select directly, the
// others descend.
func structureItems(prefix string, lvl hipparchia.WorkLevel) []Item {
	whole := "the whole work"
	if strings.Count(prefix, "/") > 1 {
		whole = "all of " + prefix[strings.LastIndexByte(prefix, '/')+1:]
	}
	items := []Item{{ID: selectPrefix + prefix, Label: whole}}
	for _, v := range lvl.Range {
		next := prefix + "|" + v
		if strings.Count(prefix, "/") == 1 {
			next = prefix + "/" + v
		}
		id := next
		if lvl.Lowest() {
			id = selectPrefix + next
		}
		items = append(items, Item{ID: id, Label: strings.TrimSpace(lvl.Label + " " + v)})
	}
	return items
}

// selectLocus makes a selection from "author", "author/work", or
// "author/work/v1|v2".
func selectLocus(ctx Context, locus string) tea.Cmd {
	parts := strings.SplitN(locus, "/", 3)
	values := map[string]string{"auth": parts[0]}
	shape := "author"
	if len(parts) > 1 {
		values["work"] = parts[1]
		shape = "work"
	}
	if len(parts) > 2 {
		values["locus"] = parts[2]
		shape = "passage"
	}
	cmd, err := submitMakeSelection(ctx, shape, values)
	if err != nil {
		return msgCmd(ActionResult{Err: err})
	}
	return cmd
}

// pickShapeAction selects the chosen hint through one single-field shape.
func pickShapeAction(shape string) Action {
	return func(ctx Context, item Item) tea.Cmd {
		s, ok := findShape(shape)
		if !ok || len(s.keys) != 1 {
			return msgCmd(ActionResult{Err: fmt.Errorf("unknown selection type %q", shape)})
		}
		cmd, err := submitMakeSelection(ctx, shape, map[string]string{s.keys[0]: item.ID})
		if err != nil {
			return msgCmd(ActionResult{Err: err})
		}
		return cmd
	}
}

// LemmaHintAction asks for the start of a dictionary headword.
func LemmaHintAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(FormPrompt{
		ID:      "lemmata",
		Title:   "Find a lemma",
		Fields:  []FormField{{Key: "term", Label: "lemma", Placeholder: "at least two letters"}},
		Context: ctx,
	})
}

func submitLemmaHints(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	term, err := hintTerm(values)
	if err != nil {
		return nil, err
	}
	if ctx.Server == nil {
		return nil, errors.New("not connected")
	}
	return func() tea.Msg {
		hints, err := ctx.Server.Hints(ctx.Ctx(), hipparchia.HintLemma, term)
		if err != nil {
			return ActionResult{Err: err}
		}
		if len(hints) == 0 {
			return ActionResult{Info: fmt.Sprintf("No lemma matches %q", term)}
		}
		items := make([]Item, 0, len(hints))
		for _, h := range hints {
			items = append(items, Item{ID: h, Label: h})
		}
		return PickList{Node: "lemmata:hits", Title: "lemmata: " + term, Items: items}
	}, nil
}

// PickLemmaAction opens the search form with the chosen lemma filled in.
func PickLemmaAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(searchPrompt(ctx, item.ID))
}
