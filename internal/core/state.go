package core

// State is the player controller's lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
	StateError
)

// Active returns true while the player should be treated as playing for
// UI purposes (progress ticking, history recording).
func (s State) Active() bool {
	return s == StatePlaying || s == StateBuffering
}

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	case StateEnded:
		return "ended"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
