package capture

import "sync"

// State is the processing state of a Gate.
type State int

const (
	StateIdle State = iota
	StateBusy
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Gate admits at most one capture at a time. Requests made while busy are
// rejected, never queued.
type Gate struct {
	mu    sync.Mutex
	state State
}

// TryStart moves the gate from idle to busy. It returns ErrBusy when another
// capture holds the gate.
func (g *Gate) TryStart() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateBusy {
		return ErrBusy
	}
	g.state = StateBusy
	return nil
}

// Done returns the gate to idle.
func (g *Gate) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateIdle
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}
