package browser

import "sync"

// Direction names a navigation action.
type Direction int

const (
	Back Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "back"
}

// Bindings holds the handlers attached to each direction. Bind adds to any
// existing handlers, so callers must Unbind before rebinding.
type Bindings struct {
	mu       sync.Mutex
	handlers map[Direction][]func()
}

func NewBindings() *Bindings {
	return &Bindings{handlers: make(map[Direction][]func())}
}

// Bind attaches fn to d.
func (b *Bindings) Bind(d Direction, fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.handlers[d] = append(b.handlers[d], fn)
	b.mu.Unlock()
}

// Unbind removes every handler attached to d.
func (b *Bindings) Unbind(d Direction) {
	b.mu.Lock()
	delete(b.handlers, d)
	b.mu.Unlock()
}

// Count returns how many handlers are attached to d.
func (b *Bindings) Count(d Direction) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[d])
}

// Trigger runs the handlers attached to d and returns how many ran. The
// handler list is copied first so a handler may rebind.
func (b *Bindings) Trigger(d Direction) int {
	b.mu.Lock()
	fns := append([]func(){}, b.handlers[d]...)
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
