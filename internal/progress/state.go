package progress

// State is a position in the monitor lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitPort
	StateConnecting
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitPort:
		return "await-port"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}
