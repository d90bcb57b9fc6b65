package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/hipparchia-console/internal/backend"
	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/jobs"
	"github.com/atomicstack/hipparchia-console/internal/logging"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/progress"
	"github.com/atomicstack/hipparchia-console/internal/render"
	"github.com/atomicstack/hipparchia-console/internal/session"
	"github.com/atomicstack/hipparchia-console/internal/state"
	"github.com/atomicstack/hipparchia-console/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Config describes user-provided application options.
type Config struct {
	ServerURL       string
	Width           int
	Height          int
	ShowFooter      bool
	Verbose         bool
	RootMenu        string
	Images          render.ImagePolicy
	Variants        map[hipparchia.Kind]progress.Variant
	RefreshInterval time.Duration
	DialAttempts    int
	DialInterval    time.Duration
	CacheTTL        time.Duration
}

// Session is one connection to a server together with the components that
// drive it. The TUI and the one-shot commands share it.
type Session struct {
	TraceID    string
	Client     *hipparchia.Client
	Options    *session.Synchronizer
	Selections state.SelectionStore
	Panel      *state.SelectionPanel
	Renderer   *render.Renderer
	Jobs       *jobs.Dispatcher
}

// Connect builds the session for cfg and loads the server's option mapping.
// display receives the progress lines of monitored jobs.
func Connect(ctx context.Context, cfg Config, display progress.Display) (*Session, error) {
	traceID := uuid.NewString()
	logging.SetSession(traceID)

	var opts []hipparchia.Option
	if cfg.CacheTTL > 0 {
		opts = append(opts, hipparchia.WithCacheTTL(cfg.CacheTTL))
	}
	client, err := hipparchia.New(cfg.ServerURL, opts...)
	if err != nil {
		return nil, err
	}
	renderer := render.New(render.Options{
		BaseURL: client.BaseURL(),
		Policy:  cfg.Images,
		Width:   cfg.Width,
		Height:  cfg.Height,
	})
	selections := state.NewSelectionStore()
	panel := state.NewSelectionPanel(client, selections)
	sync := session.New(session.DefaultRegistry(), client, panel)
	dispatcher := jobs.New(client, jobs.Options{
		Progress: progress.Config{
			Host:          client.Host(),
			Display:       display,
			RetryInterval: cfg.DialInterval,
			MaxAttempts:   cfg.DialAttempts,
		},
		Variants: cfg.Variants,
		Surface:  renderer,
	})

	if err := sync.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", client.BaseURL(), err)
	}
	if err := panel.Reload(ctx); err != nil {
		logging.Error(fmt.Errorf("initial selections: %w", err))
	}

	return &Session{
		TraceID:    traceID,
		Client:     client,
		Options:    sync,
		Selections: selections,
		Panel:      panel,
		Renderer:   renderer,
		Jobs:       dispatcher,
	}, nil
}

// Close abandons any job still running.
func (s *Session) Close() {
	if s == nil || s.Jobs == nil {
		return
	}
	s.Jobs.Abandon()
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := ui.NewProgressFeed()
	s, err := Connect(ctx, cfg, feed)
	if err != nil {
		feed.Close()
		return err
	}
	defer s.Close()

	watcher := backend.NewWatcher(s.Client, cfg.RefreshInterval)
	model := ui.NewModel(ui.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		RootMenu:   cfg.RootMenu,
		ServerURL:  s.Client.BaseURL(),
	}, ui.Deps{
		Client:     s.Client,
		Jobs:       s.Jobs,
		Options:    s.Options,
		Renderer:   s.Renderer,
		Selections: s.Selections,
		Feed:       feed,
		Watcher:    watcher,
		Base:       ctx,
	})
	defer model.Shutdown()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		events.App.Stop("killed")
		return nil
	}
	events.App.Stop("quit")
	return err
}
