package menu

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
)

func SearchAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(searchPrompt(ctx, ""))
}

// searchPrompt builds the search form with lemma filled in. While a vector
// search is enabled only the lemma is used, and it may be left empty.
func searchPrompt(ctx Context, lemma string) FormPrompt {
	prompt := FormPrompt{
		ID:    "search",
		Title: "Search",
		Fields: []FormField{
			{Key: "skg", Label: "term", Placeholder: "λόγοσ"},
			{Key: "prx", Label: "near", Placeholder: "proximate term"},
			{Key: "lem", Label: "lemma", Initial: lemma},
			{Key: "plm", Label: "near lemma"},
		},
		Context: ctx,
	}
	if ctx.VectorMode != "" {
		prompt.Title = "Vector search (" + ctx.VectorMode + ")"
		prompt.Help = "Only the lemma is sent; leave it empty to model the whole selection. Enter to submit. Esc to cancel."
	}
	return prompt
}

func LookupAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(FormPrompt{
		ID:      "lookup",
		Title:   "Dictionary lookup",
		Fields:  []FormField{{Key: "term", Label: "headword"}},
		Context: ctx,
	})
}

func ReverseAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(FormPrompt{
		ID:      "reverse",
		Title:   "Reverse lookup",
		Fields:  []FormField{{Key: "term", Label: "english", Placeholder: "word"}},
		Context: ctx,
	})
}

func BrowseAction(ctx Context, item Item) tea.Cmd {
	return promptCmd(FormPrompt{
		ID:    "browse",
		Title: "Browse",
		Help:  "Locus as gr0012w001_LN_1 or gr0012w001|1|1. Enter to open. Esc to cancel.",
		Fields: []FormField{
			{Key: "locus", Label: "locus", Placeholder: "gr0012w001|1|1"},
		},
		Context: ctx,
	})
}

func loadMakerMenu(Context) ([]Item, error) {
	return []Item{
		{ID: string(hipparchia.KindIndex), Label: "index of the current selection"},
		{ID: string(hipparchia.KindVocab), Label: "vocabulary of the current selection"},
		{ID: string(hipparchia.KindText), Label: "text of the current selection"},
	}, nil
}

func MakerAction(ctx Context, item Item) tea.Cmd {
	kind, err := hipparchia.ParseKind(item.ID)
	if err != nil {
		return msgCmd(ActionResult{Err: err})
	}
	switch kind {
	case hipparchia.KindIndex, hipparchia.KindVocab, hipparchia.KindText:
	default:
		return msgCmd(ActionResult{Err: fmt.Errorf("%s is not a maker", kind)})
	}
	return msgCmd(JobRequest{Request: jobs.Request{Kind: kind}, Label: item.Label})
}

func submitSearch(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	fields := jobs.Fields{
		Term:           values["skg"],
		Proximate:      values["prx"],
		Lemma:          values["lem"],
		ProximateLemma: values["plm"],
	}
	if ctx.VectorMode != "" {
		req := jobs.Request{Kind: hipparchia.KindSearch, Fields: fields, Vector: ctx.VectorMode}
		label := strings.TrimSpace(ctx.VectorMode + " " + strings.TrimSpace(fields.Lemma))
		return msgCmd(JobRequest{Request: req, Label: label}), nil
	}
	if fields.Empty() {
		return nil, errors.New("enter a term or a lemma")
	}
	req := jobs.Request{Kind: hipparchia.KindSearch, Fields: fields}
	return msgCmd(JobRequest{Request: req, Label: "search " + fields.Query()}), nil
}

func submitLookup(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	term := strings.TrimSpace(values["term"])
	req := jobs.Request{Kind: hipparchia.KindLexicalLookup, Term: term}
	return msgCmd(JobRequest{Request: req, Label: "lookup " + term}), nil
}

func submitReverse(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	term := strings.TrimSpace(values["term"])
	if term == "" {
		return nil, errors.New("enter an english word")
	}
	req := jobs.Request{Kind: hipparchia.KindReverseLookup, Term: term}
	return msgCmd(JobRequest{Request: req, Label: "reverse " + term}), nil
}

// submitBrowse opens a locus. Loci containing "|" are raw citations; anything
// else is an index locator.
func submitBrowse(ctx Context, _ string, values map[string]string) (tea.Cmd, error) {
	locus := strings.TrimSpace(values["locus"])
	if locus == "" {
		return nil, errors.New("enter a locus")
	}
	return msgCmd(BrowseRequest{Locator: locus, Raw: strings.Contains(locus, "|")}), nil
}
