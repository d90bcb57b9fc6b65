// Package progress follows one job's interim status over the server's
// websocket channel. A Monitor is single use: it walks
// idle → await-port → connecting → open → closed exactly once.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fasthttp/websocket"

	"github.com/atomicstack/hipparchia-console/internal/hipparchia"
	"github.com/atomicstack/hipparchia-console/internal/logging/events"
)

const (
	DefaultRetryInterval = 10 * time.Millisecond
	DefaultMaxAttempts   = 500
)

// PortLocator resolves the progress channel port for a job.
type PortLocator interface {
	ConfirmPort(ctx context.Context, kind hipparchia.Kind, id string) (int, error)
}

// Dialer opens the websocket. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Display receives rendered progress for a job.
type Display interface {
	Show(jobID, text string)
	Clear(jobID string)
}

// Tracker is a Display that follows one job at a time. Track is called when a
// job starts, before its monitor runs.
type Tracker interface {
	Track(jobID string)
}

// Config holds what every Monitor shares.
type Config struct {
	Host          string
	Locator       PortLocator
	Dialer        Dialer
	Display       Display
	RetryInterval time.Duration
	MaxAttempts   int
}

// Monitor tracks the progress channel for one job.
type Monitor struct {
	cfg      Config
	kind     hipparchia.Kind
	id       string
	renderer Renderer

	mu        sync.Mutex
	state     State
	conn      *websocket.Conn
	sendOnce  sync.Once
	closeOnce sync.Once
}

// New returns an idle monitor for job id rendered through r.
func New(cfg Config, kind hipparchia.Kind, id string, r Renderer) *Monitor {
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if r == nil {
		r = Simple{}
	}
	return &Monitor{cfg: cfg, kind: kind, id: id, renderer: r}
}

// ID returns the tracked job ID.
func (m *Monitor) ID() string {
	return m.id
}

// State returns the current lifecycle position.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run drives the monitor until the job completes, the channel fails, or ctx
// is cancelled. It always leaves the monitor closed.
func (m *Monitor) Run(ctx context.Context) error {
	m.transition(StateAwaitPort)
	port, err := m.cfg.Locator.ConfirmPort(ctx, m.kind, m.id)
	if err != nil {
		m.close("port lookup failed")
		return fmt.Errorf("confirm port for %s: %w", m.id, err)
	}
	events.Progress.Port(m.id, port)

	m.transition(StateConnecting)
	conn, err := m.connect(ctx, port)
	if err != nil {
		m.close("connect failed")
		return err
	}
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { m.close("cancelled") })
	defer stop()

	m.transition(StateOpen)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.close("channel closed")
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if errors.Is(err, net.ErrClosed) && m.State() == StateClosed {
				return nil
			}
			return fmt.Errorf("progress channel for %s: %w", m.id, err)
		}
		var rec hipparchia.ProgressRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			events.Progress.Discard(m.id, "<undecodable>")
			continue
		}
		if m.Handle(rec) {
			return nil
		}
	}
}

// Handle applies one inbound record and reports whether the monitor closed.
// Records for other jobs are discarded.
func (m *Monitor) Handle(rec hipparchia.ProgressRecord) bool {
	if m.State() == StateClosed {
		return true
	}
	if rec.ID != m.id {
		events.Progress.Discard(m.id, rec.ID)
		return false
	}
	if rec.Inactive() {
		m.close("inactive")
		return true
	}
	return !m.show(rec)
}

// show renders rec unless the monitor has closed. The state check and the
// display write share the lock, so a concurrent close always clears after the
// line is shown.
func (m *Monitor) show(rec hipparchia.ProgressRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateClosed {
		return false
	}
	if m.cfg.Display != nil {
		m.cfg.Display.Show(m.id, m.renderer.Render(rec))
	}
	return true
}

func (m *Monitor) connect(ctx context.Context, port int) (*websocket.Conn, error) {
	target := fmt.Sprintf("ws://%s/ws", net.JoinHostPort(m.cfg.Host, strconv.Itoa(port)))

	pollCtx, cancel := context.WithCancel(ctx)
	stopPolling := sync.OnceFunc(cancel)
	defer stopPolling()

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(m.cfg.RetryInterval), uint64(m.cfg.MaxAttempts)),
		pollCtx,
	)
	var conn *websocket.Conn
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		c, _, err := m.cfg.Dialer.DialContext(pollCtx, target, nil)
		if err != nil {
			events.Progress.DialRetry(m.id, attempt, err)
			return err
		}
		conn = c
		return nil
	}, policy)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}

	if err := m.sendID(conn); err != nil {
		conn.Close()
		return nil, err
	}
	stopPolling()
	return conn, nil
}

func (m *Monitor) sendID(conn *websocket.Conn) error {
	var err error
	m.sendOnce.Do(func() {
		err = conn.WriteJSON(m.id)
	})
	if err != nil {
		return fmt.Errorf("send job id %s: %w", m.id, err)
	}
	return nil
}

func (m *Monitor) close(reason string) {
	m.closeOnce.Do(func() {
		m.transition(StateClosed)
		m.mu.Lock()
		conn := m.conn
		m.conn = nil
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		if m.cfg.Display != nil {
			m.cfg.Display.Clear(m.id)
		}
		events.Progress.Closed(m.id, reason)
	})
}

func (m *Monitor) transition(next State) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()
	if prev != next {
		events.Progress.State(m.id, prev.String(), next.String())
	}
}
