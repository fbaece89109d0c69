package player

import "sync"

// Listener receives lifecycle notifications from a Player. All methods
// are pure notifications; no return value is expected and they are
// always invoked from the player's dispatch loop, in registration order.
type Listener interface {
	OnLoad()
	OnStart()
	OnResume()
	OnPause()
	OnProgress()
	OnFinish()
	OnDestroy()
	OnError(err *Error)
}

type listenerEntry struct {
	id       uint64
	listener Listener
}

// listenerRegistry is an ordered set of listeners. Subscribing returns
// an unsubscribe handle so callers can detach without the registry
// growing without bound across instance reuse.
type listenerRegistry struct {
	mu      sync.Mutex
	entries []listenerEntry
	nextID  uint64
}

func (r *listenerRegistry) subscribe(l Listener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, listenerEntry{id: id, listener: l})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, e := range r.entries {
			if e.id == id {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return
			}
		}
	}
}

// each invokes fn for every registered listener in registration order.
// A snapshot is taken first so a listener may unsubscribe itself.
func (r *listenerRegistry) each(fn func(Listener)) {
	r.mu.Lock()
	snapshot := make([]listenerEntry, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.Unlock()

	for _, e := range snapshot {
		fn(e.listener)
	}
}
