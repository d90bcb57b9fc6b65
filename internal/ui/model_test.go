package ui

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/progress"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/atomicstack/hipparchia-console/internal/state"
	"github.com/atomicstack/hipparchia-console/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

// newTestHarness wires a model to an in-process server the way the app does.
func newTestHarness(t *testing.T, cfg Config) (*Harness, *testutil.Server) {
	t.Helper()
	srv := testutil.NewServer(t)
	client, err := hipparchia.New(srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	renderer := render.New(render.Options{BaseURL: srv.URL})
	selections := state.NewSelectionStore()
	feed := NewProgressFeed()
	t.Cleanup(feed.Close)
	dispatcher := jobs.New(client, jobs.Options{
		Progress: progress.Config{Host: client.Host(), Display: feed},
		Surface:  renderer,
	})
	options := session.New(session.DefaultRegistry(), client, state.NewSelectionPanel(client, selections))
	cfg.ServerURL = srv.URL
	model := NewModel(cfg, Deps{
		Client:     client,
		Jobs:       dispatcher,
		Options:    options,
		Renderer:   renderer,
		Selections: selections,
		Feed:       feed,
	})
	return NewHarness(model), srv
}

// enterRootItem moves the root cursor onto id and presses enter.
func enterRootItem(t *testing.T, h *Harness, id string) {
	t.Helper()
	root := h.Model().stack[0]
	idx := root.IndexOf(id)
	if idx < 0 {
		t.Fatalf("root item %q not found", id)
	}
	root.Cursor = idx
	h.Press(tea.KeyEnter)
}

func TestMenuHeaderRootLevel(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	got := m.menuHeader()
	want := defaultRootTitle
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMenuHeaderNestedLevels(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	m.stack = append(m.stack, newLevel("options", "options", nil, nil))
	got := m.menuHeader()
	want := "options"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMenuHeaderDeepLevels(t *testing.T) {
	m := NewModel(Config{}, Deps{})
	m.stack = append(m.stack, newLevel("selections", "selections", nil, nil))
	m.stack = append(m.stack, newLevel("selections:make", "add a selection", nil, nil))
	m.stack = append(m.stack, newLevel("selections:make:exclude-author", "exclude", nil, nil))
	got := m.menuHeader()
	want := "selections→make→exclude author"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRootMenuOverrideSetsInitialLevel(t *testing.T) {
	m := NewModel(Config{RootMenu: "session"}, Deps{})
	if got := m.stack[0].ID; got != "session" {
		t.Fatalf("expected root id session, got %s", got)
	}
	if m.rootMenuID != "session" {
		t.Fatalf("expected rootMenuID to be session, got %s", m.rootMenuID)
	}
	if header := m.menuHeader(); header != "session" {
		t.Fatalf("expected header session, got %s", header)
	}
	if len(m.stack[0].Items) == 0 {
		t.Fatalf("expected session items to be loaded")
	}
}

func TestRootMenuOverrideIncludesRootInHeaderBreadcrumb(t *testing.T) {
	m := NewModel(Config{RootMenu: "session"}, Deps{})
	m.stack = append(m.stack, newLevel("session:author", "author", nil, nil))
	if header := m.menuHeader(); header != "session→author" {
		t.Fatalf("expected breadcrumb session→author, got %s", header)
	}
}

func TestInvalidRootMenuFallsBackToDefault(t *testing.T) {
	m := NewModel(Config{RootMenu: "does-not-exist"}, Deps{})
	if got := m.stack[0].ID; got != "root" {
		t.Fatalf("expected default root id, got %s", got)
	}
	if m.rootMenuID != "" {
		t.Fatalf("expected empty rootMenuID, got %s", m.rootMenuID)
	}
	if m.errMsg == "" {
		t.Fatalf("expected error message for invalid root menu")
	}
}

func TestLevelToggleSelection(t *testing.T) {
	lvl := newLevel("test", "Test", []menu.Item{{ID: "a"}, {ID: "b"}}, nil)
	lvl.MultiSelect = true
	lvl.Cursor = 0
	lvl.ToggleCurrentSelection()
	if len(lvl.Selected) != 1 || !lvl.IsSelected("a") {
		t.Fatalf("expected first item selected, got %#v", lvl.Selected)
	}
	lvl.Cursor = 1
	lvl.ToggleCurrentSelection()
	if len(lvl.Selected) != 2 {
		t.Fatalf("expected two selections, got %#v", lvl.Selected)
	}
	lvl.ToggleCurrentSelection()
	if lvl.IsSelected("b") {
		t.Fatalf("expected deselection of second item")
	}
}

func TestLevelCursorPaging(t *testing.T) {
	items := make([]menu.Item, 12)
	for i := range items {
		items[i] = menu.Item{ID: fmt.Sprintf("item-%d", i)}
	}
	lvl := newLevel("test", "Test", items, nil)
	lvl.Cursor = 0
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 5 {
		t.Fatalf("expected cursor at 5, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 10 {
		t.Fatalf("expected cursor at 10, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 11 {
		t.Fatalf("expected cursor at end, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorPageDown(5) {
		t.Fatalf("expected no movement past end")
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 6 {
		t.Fatalf("expected cursor at 6, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 1 {
		t.Fatalf("expected cursor at 1, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 0 {
		t.Fatalf("expected cursor at start, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorPageUp(5) {
		t.Fatalf("expected no movement past start")
	}
}

func TestOptionToggleIsPushedUpstream(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	enterRootItem(t, h, "options")

	current := h.Model().currentLevel()
	if current.ID != "options" {
		t.Fatalf("expected options level, got %s", current.ID)
	}
	current.Cursor = current.IndexOf("onehit")
	h.Press(tea.KeyEnter)

	if pushes := srv.Pushes(); !slices.Contains(pushes, "onehit=yes") {
		t.Fatalf("expected onehit=yes to be pushed, got %v", pushes)
	}
	pair, _ := h.Model().options.Registry().Pair("onehit")
	if !pair.Yes() {
		t.Fatalf("expected local control to flip")
	}
	if h.Model().errMsg != "" {
		t.Fatalf("unexpected error %q", h.Model().errMsg)
	}
}

func TestOptionPushesKeepEditOrder(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.DelayPush("onehit=yes", 50*time.Millisecond)
	m := h.Model()

	first := m.handleOptionEditMsg(menu.OptionEdit{Edit: session.ToggleEdit("onehit", true)})
	second := m.handleOptionEditMsg(menu.OptionEdit{Edit: session.ToggleEdit("onehit", false)})
	if first == nil || second == nil {
		t.Fatalf("expected a push command per edit")
	}

	var wg sync.WaitGroup
	for _, cmd := range []tea.Cmd{second, first} {
		wg.Add(1)
		go func(cmd tea.Cmd) {
			defer wg.Done()
			cmd()
		}(cmd)
	}
	wg.Wait()

	want := []string{"onehit=yes", "onehit=no"}
	if got := srv.Pushes(); !slices.Equal(got, want) {
		t.Fatalf("expected pushes %v, got %v", want, got)
	}
	if got := srv.Options()["onehit"]; got != "no" {
		t.Fatalf("expected server to hold onehit=no, got %q", got)
	}
	pair, _ := m.options.Registry().Pair("onehit")
	if pair.Yes() {
		t.Fatalf("expected local control to show the last edit")
	}
}

func TestCascadingEditReloadsOptions(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.SetOptions(map[string]string{"latestdate": "100", "maxresults": "250"})
	enterRootItem(t, h, "options")

	h.Send(menu.OptionEdit{Edit: session.NumberEdit("latestdate", 100)})

	if got := srv.RequestsWithPrefix("/selection/fetch"); len(got) != 1 {
		t.Fatalf("expected one selection reload, got %v", got)
	}
	sp, _ := h.Model().options.Registry().Spinner("maxresults")
	if sp.Value != 250 {
		t.Fatalf("expected server mapping to be applied, maxresults = %d", sp.Value)
	}
}

func TestStepSpinnerMovesByStep(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	enterRootItem(t, h, "options")
	current := h.Model().currentLevel()
	current.Cursor = current.IndexOf("linesofcontext")

	h.Press(tea.KeyRight, tea.KeyRight, tea.KeyLeft)

	want := []string{"linesofcontext=5", "linesofcontext=6", "linesofcontext=5"}
	if got := srv.Pushes(); !slices.Equal(got, want) {
		t.Fatalf("expected pushes %v, got %v", want, got)
	}
	if current.Filter != "" {
		t.Fatalf("expected arrows not to edit the filter, got %q", current.Filter)
	}
}

func TestSelectorChoiceReturnsToOptions(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	enterRootItem(t, h, "options")
	current := h.Model().currentLevel()
	current.Cursor = current.IndexOf("sortorder")
	h.Press(tea.KeyEnter)

	choice := h.Model().currentLevel()
	if choice.ID != "options:choice" {
		t.Fatalf("expected choice level, got %s", choice.ID)
	}
	choice.Cursor = choice.IndexOf("sortorder=provenance")
	h.Press(tea.KeyEnter)

	if got := h.Model().currentLevel().ID; got != "options" {
		t.Fatalf("expected to return to options, got %s", got)
	}
	if !slices.Contains(srv.Pushes(), "sortorder=provenance") {
		t.Fatalf("expected sortorder push, got %v", srv.Pushes())
	}
}

func TestCookieBannerWhenCookiesDisabled(t *testing.T) {
	h, srv := newTestHarness(t, Config{})
	srv.DisableCookies()
	m := h.Model()
	if _, err := m.client.(*hipparchia.Client).Options(m.bus.Context()); err != nil {
		t.Fatalf("options: %v", err)
	}
	h.Send(checkCookiesCmd(m.client)())
	if !m.cookieBanner {
		t.Fatalf("expected cookie banner")
	}
	if view := h.View(); !strings.Contains(view, cookieBannerText) {
		t.Fatalf("expected banner in view, got:\n%s", view)
	}
}
