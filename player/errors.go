package player

import "sync"

// ErrorKind classifies the ways playback can fail terminally.
type ErrorKind string

const (
	ErrorInvalidURL     ErrorKind = "invalid_url"
	ErrorCreatingPlayer ErrorKind = "creating_player"
	ErrorRootedDevice   ErrorKind = "rooted_device"
	ErrorUnknown        ErrorKind = "unknown"
)

// Error pairs an immutable kind with a display message. The message can
// be overridden exactly once, typically to replace a native player's
// description with something fit for a screen.
type Error struct {
	Kind ErrorKind

	mu         sync.Mutex
	message    string
	overridden bool
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, message: message}
}

func (e *Error) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

// SetMessage replaces the display message. Only the first call takes
// effect; later calls report false and leave the message alone.
func (e *Error) SetMessage(message string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.overridden {
		return false
	}
	e.message = message
	e.overridden = true
	return true
}
