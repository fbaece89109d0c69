package player

// State is the raw playback state reported by the native player. The
// native player owns it exclusively; the coordinator only keeps a
// last-observed copy so it can compare transitions.
type State int

const (
	StateEmpty State = iota
	StateReadyToPlay
	StateBuffering
	StatePlaying
	StatePaused
	StateSeeking
	StateFinished
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReadyToPlay:
		return "ready"
	case StateBuffering:
		return "buffering"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateSeeking:
		return "seeking"
	case StateFinished:
		return "finished"
	case StateError:
		return "error"
	}
	return "unknown"
}
