package command

import (
	"context"
	"fmt"

	"github.com/atomicstack/hipparchia-console/internal/logging/events"
	"github.com/atomicstack/hipparchia-console/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler menu.Action
	Item    menu.Item
}

// Bus coordinates the execution of menu actions.
type Bus struct {
	base context.Context
}

// New initialises a command bus whose actions run under base.
func New(base context.Context) *Bus {
	if base == nil {
		base = context.Background()
	}
	return &Bus{base: base}
}

// Context returns the context actions run under.
func (b *Bus) Context() context.Context {
	return b.base
}

// Execute wraps a menu action into a Bubble Tea command while emitting trace
// logs. ctx must be captured on the UI goroutine; the handler runs inside the
// returned command.
func (b *Bus) Execute(ctx menu.Context, req Request) tea.Cmd {
	if ctx.Base == nil {
		ctx.Base = b.base
	}
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		cmd := req.Handler(ctx, req.Item)
		if cmd == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
