package ui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

func TestWithPromptResetsStateAndReturnsCommand(t *testing.T) {
	m := NewModel(Config{ShowFooter: true}, Deps{})
	m.loading = true
	m.pendingID = "test"
	m.pendingLabel = "label"
	m.errMsg = "previous"
	m.setInfo("old info")

	cmd := m.withPrompt(func() promptResult {
		return promptResult{Cmd: tea.Quit, Info: "executed"}
	})

	if m.loading {
		t.Fatalf("expected loading cleared")
	}
	if m.pendingID != "" || m.pendingLabel != "" {
		t.Fatalf("expected pending fields cleared, got %q %q", m.pendingID, m.pendingLabel)
	}
	if m.errMsg != "" {
		t.Fatalf("expected error cleared, got %q", m.errMsg)
	}
	if m.infoMsg != "executed" {
		t.Fatalf("expected info message set, got %q", m.infoMsg)
	}
	if cmd == nil {
		t.Fatalf("expected command returned")
	}
	if msg := cmd(); msg == nil {
		t.Fatalf("expected command to emit a message")
	} else if _, ok := msg.(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message, got %T", msg)
	}
}

func TestWithPromptHandlesError(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	boom := errors.New("boom")

	cmd := m.withPrompt(func() promptResult {
		return promptResult{Err: boom}
	})

	if cmd != nil {
		t.Fatalf("expected no command on error")
	}
	if m.errMsg != boom.Error() {
		t.Fatalf("expected error message %q, got %q", boom.Error(), m.errMsg)
	}
	if m.infoMsg != "" {
		t.Fatalf("expected info cleared on error, got %q", m.infoMsg)
	}
}

func TestChoicePromptPushesLevelAtCurrentValue(t *testing.T) {
	h := NewHarness(NewModel(Config{}, Deps{}))
	h.Send(menu.ChoicePrompt{
		Key:     "searchscope",
		Label:   "proximity scope",
		Choices: []string{"lines", "words"},
		Current: "words",
	})

	lvl := h.Model().currentLevel()
	if lvl.ID != "options:choice" {
		t.Fatalf("expected choice level, got %s", lvl.ID)
	}
	if len(lvl.Items) != 2 || lvl.Items[1].ID != "searchscope=words" {
		t.Fatalf("unexpected items %#v", lvl.Items)
	}
	if lvl.Cursor != 1 {
		t.Fatalf("expected cursor on the current choice, got %d", lvl.Cursor)
	}
}

func TestSearchFormSubmitsJob(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.SetPayload("/search/standard/", `{"title":"arma","searchsummary":"<p>1 found</p>","found":"<p>arma virumque</p>","js":""}`)
	srv.SetProgress(`{"ID":"x","Activity":"inactive"}`)

	enterRootItem(t, h, "search")
	if h.Model().mode != ModeForm {
		t.Fatalf("expected form mode, got %v", h.Model().mode)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("arma")})
	h.Press(tea.KeyEnter)

	m := h.Model()
	if m.mode != ModeResults {
		t.Fatalf("expected results mode, got %v (err %q)", m.mode, m.errMsg)
	}
	requested := slices.ContainsFunc(h.Seen(), func(msg tea.Msg) bool {
		req, ok := msg.(menu.JobRequest)
		return ok && req.Request.Kind == hipparchia.KindSearch
	})
	if !requested {
		t.Fatalf("expected the form to raise a search job request")
	}
	if got := srv.RequestsWithPrefix("/search/standard/"); len(got) != 1 {
		t.Fatalf("expected one submission, got %v", got)
	}
	entries := m.history.Entries()
	if len(entries) != 1 || !entries[0].Done {
		t.Fatalf("expected one finished history entry, got %#v", entries)
	}
}

// enterItem moves the cursor of the current level onto id and presses enter.
func enterItem(t *testing.T, h *Harness, id string) {
	t.Helper()
	current := h.Model().currentLevel()
	idx := current.IndexOf(id)
	if idx < 0 {
		t.Fatalf("item %q not found in %s (err %q)", id, current.ID, h.Model().errMsg)
	}
	current.Cursor = idx
	h.Press(tea.KeyEnter)
}

func TestFindAuthorWalksToPassageSelection(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.SetHints("author", "Cicero [lt0474]", "Catullus [lt0472]")
	srv.SetWorks("lt0474", "Pro Sulla (w058)")
	srv.SetStructure("lt0474/058", `{"totallevels":1,"level":0,"label":"section","low":"1","high":"2","range":["1","2"]}`)

	enterRootItem(t, h, "selections")
	enterItem(t, h, "find")
	enterItem(t, h, "author")
	if h.Model().mode != ModeForm {
		t.Fatalf("expected the term form, got mode %v", h.Model().mode)
	}
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("cic")})
	h.Press(tea.KeyEnter)

	if got := h.Model().currentLevel().ID; got != "selections:hits:author" {
		t.Fatalf("expected author hits, got %s (err %q)", got, h.Model().errMsg)
	}
	enterItem(t, h, "lt0474")
	if got := h.Model().currentLevel().ID; got != "selections:hits:works" {
		t.Fatalf("expected works list, got %s (err %q)", got, h.Model().errMsg)
	}
	enterItem(t, h, "lt0474/058")
	if got := h.Model().currentLevel().ID; got != "selections:hits:passage" {
		t.Fatalf("expected passage list, got %s (err %q)", got, h.Model().errMsg)
	}
	enterItem(t, h, "select:lt0474/058/2")

	want := []string{"/selection/make/_?auth=lt0474&work=058&locus=2&endpoint="}
	if got := srv.RequestsWithPrefix("/selection/make/"); !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if h.Model().errMsg != "" {
		t.Fatalf("unexpected error %q", h.Model().errMsg)
	}
}

func TestVectorToggleRoutesSearch(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.SetPayload("/vectors/", `{"title":"neighbors","searchsummary":"","found":"<p>arma</p>","js":""}`)
	srv.SetProgress(`{"ID":"x","Activity":"inactive"}`)
	h.Model().options.Apply(map[string]string{"isvectorsearch": "yes", "nearestneighborsquery": "yes"})

	enterRootItem(t, h, "search")
	h.Press(tea.KeyTab, tea.KeyTab)
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("arma")})
	h.Press(tea.KeyEnter)

	got := srv.RequestsWithPrefix("/vectors/nearestneighborsquery/")
	if len(got) != 1 || !strings.HasSuffix(got[0], "/arma") {
		t.Fatalf("expected one vector submission ending in the lemma, got %v", got)
	}
	if std := srv.RequestsWithPrefix("/search/standard/"); len(std) != 0 {
		t.Fatalf("expected no standard search, got %v", std)
	}
}
