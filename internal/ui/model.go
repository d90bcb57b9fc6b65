package ui

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/backend"
	"github.com/atomicstack/hipparchia-console/internal/browser"
	"github.com/atomicstack/hipparchia-console/internal/data/dispatcher"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/atomicstack/hipparchia-console/internal/state"
	"github.com/atomicstack/hipparchia-console/internal/theme"
	"github.com/atomicstack/hipparchia-console/internal/ui/command"
	uistate "github.com/atomicstack/hipparchia-console/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeMenu Mode = iota
	ModeForm
	ModeResults
)

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "main menu"
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Client is the server surface the TUI talks to outside of jobs.
// *hipparchia.Client satisfies it.
type Client interface {
	menu.Server
	browser.Fetcher
	Lookup(ctx context.Context, headword string) (hipparchia.Payload, error)
	FindByForm(ctx context.Context, word, authorID string) (hipparchia.Payload, error)
	IDLookup(ctx context.Context, target string) (hipparchia.Payload, error)
	CookiesEnabled() bool
}

// Config holds presentation settings.
type Config struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	RootMenu   string
	ServerURL  string
}

// Deps are the collaborators the model drives. Client, Jobs, and Options are
// required; the stores, renderer, and feed get defaults when nil.
type Deps struct {
	Client     Client
	Jobs       *jobs.Dispatcher
	Options    *session.Synchronizer
	Renderer   *render.Renderer
	Selections state.SelectionStore
	History    state.HistoryStore
	Feed       *ProgressFeed
	Watcher    *backend.Watcher
	Base       context.Context
}

// Model implements the Bubble Tea model for the Hipparchia console.
type Model struct {
	stack             []*level
	loading           bool
	pendingID         string
	pendingLabel      string
	errMsg            string
	infoMsg           string
	infoExpire        time.Time
	width             int
	height            int
	fixedWidth        bool
	fixedHeight       bool
	backend           *backend.Watcher
	backendState      map[backend.Kind]error
	backendLastErr    string
	showFooter        bool
	verbose           bool
	form              *menu.Form
	filterCursor      cursor.Model
	filterCursorDirty bool
	spinner           spinner.Model
	cookieBanner      bool

	handlers map[reflect.Type]msgHandler

	registry   *menu.Registry
	bus        *command.Bus
	mode       Mode
	rootMenuID string
	rootTitle  string
	serverURL  string

	client     Client
	jobs       *jobs.Dispatcher
	running    *jobs.Job
	abandoned  map[string]bool
	options    *session.Synchronizer
	renderer   *render.Renderer
	navigator  *browser.Navigator
	queued     *menu.BrowseRequest
	selections state.SelectionStore
	history    state.HistoryStore
	feed       *ProgressFeed
	dispatcher *dispatcher.Dispatcher
	results    *resultsPanel
}

// NewModel initialises the UI state with the root menu and configuration.
func NewModel(cfg Config, deps Deps) *Model {
	registry := menu.BuildRegistry()
	if deps.Renderer == nil {
		deps.Renderer = render.New(render.Options{BaseURL: cfg.ServerURL})
	}
	if deps.Selections == nil {
		deps.Selections = state.NewSelectionStore()
	}
	if deps.History == nil {
		deps.History = state.NewHistoryStore(0)
	}
	if deps.Feed == nil {
		deps.Feed = NewProgressFeed()
	}
	rootItems := menu.RootItems()
	root := newLevel("root", "Main Menu", rootItems, registry.Root())
	m := &Model{
		stack:        []*level{root},
		registry:     registry,
		bus:          command.New(deps.Base),
		backend:      deps.Watcher,
		backendState: map[backend.Kind]error{},
		showFooter:   cfg.ShowFooter,
		verbose:      cfg.Verbose,
		mode:         ModeMenu,
		rootTitle:    defaultRootTitle,
		serverURL:    cfg.ServerURL,
		client:       deps.Client,
		jobs:         deps.Jobs,
		abandoned:    map[string]bool{},
		options:      deps.Options,
		renderer:     deps.Renderer,
		selections:   deps.Selections,
		history:      deps.History,
		feed:         deps.Feed,
		results:      newResultsPanel(),
	}
	if deps.Client != nil {
		m.navigator = browser.New(deps.Client, m.requestPassage)
	}
	var sink dispatcher.OptionSink
	if deps.Options != nil {
		sink = deps.Options
	}
	m.dispatcher = dispatcher.New(sink, deps.Selections)
	m.applyNodeSettings(root)
	m.syncViewport(root)
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot))
	if styles.Loading != nil {
		m.spinner.Style = styles.Loading.Copy()
	}
	m.applyRootMenuOverride(cfg.RootMenu)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{checkCookiesCmd(m.client)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.feed != nil {
		cmds = append(cmds, waitForProgress(m.feed))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveForm(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):             m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):      m.handleWindowSizeMsg,
		reflect.TypeOf(tea.MouseMsg{}):           m.handleMouseMsg,
		reflect.TypeOf(spinner.TickMsg{}):        m.handleSpinnerTick,
		reflect.TypeOf(categoryLoadedMsg{}):      m.handleCategoryLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}):      m.handleActionResultMsg,
		reflect.TypeOf(menu.FormPrompt{}):        m.handleFormPromptMsg,
		reflect.TypeOf(menu.ChoicePrompt{}):      m.handleChoicePromptMsg,
		reflect.TypeOf(menu.PickList{}):          m.handlePickListMsg,
		reflect.TypeOf(menu.JobRequest{}):        m.handleJobRequestMsg,
		reflect.TypeOf(jobDoneMsg{}):             m.handleJobDoneMsg,
		reflect.TypeOf(menu.BrowseRequest{}):     m.handleBrowseRequestMsg,
		reflect.TypeOf(passageMsg{}):             m.handlePassageMsg,
		reflect.TypeOf(lexicalMsg{}):             m.handleLexicalMsg,
		reflect.TypeOf(menu.OptionEdit{}):        m.handleOptionEditMsg,
		reflect.TypeOf(optionsSyncedMsg{}):       m.handleOptionsSyncedMsg,
		reflect.TypeOf(menu.TextResult{}):        m.handleTextResultMsg,
		reflect.TypeOf(menu.SelectionsChanged{}): m.handleSelectionsChangedMsg,
		reflect.TypeOf(menu.SessionReset{}):      m.handleSessionResetMsg,
		reflect.TypeOf(cookieCheckMsg{}):         m.handleCookieCheckMsg,
		reflect.TypeOf(progressMsg{}):            m.handleProgressMsg,
		reflect.TypeOf(progressDoneMsg{}):        m.handleProgressDoneMsg,
		reflect.TypeOf(backendEventMsg{}):        m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):         m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// startLoading marks id as in flight and starts the spinner.
func (m *Model) startLoading(id, label string) tea.Cmd {
	m.loading = true
	m.pendingID = id
	m.pendingLabel = label
	m.errMsg = ""
	m.forceClearInfo()
	return m.spinner.Tick
}

func (m *Model) stopLoading() {
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
}

func (m *Model) handleSpinnerTick(msg tea.Msg) tea.Cmd {
	if !m.loading && m.running == nil {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

// Shutdown stops background work owned by the model.
func (m *Model) Shutdown() {
	if m.jobs != nil {
		m.jobs.Abandon()
	}
	if m.feed != nil {
		m.feed.Close()
	}
	if m.backend != nil {
		m.backend.Stop()
	}
}
