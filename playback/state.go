package playback

// State is the UI-facing playback state as reported by the engine.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
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
