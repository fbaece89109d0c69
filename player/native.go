package player

import (
	"time"

	"github.com/sambatech/player-sdk-go/models"
)

// Native is the vendored playback engine the coordinator drives. We only
// depend on this minimal control surface; rendering, view hierarchies
// and the like stay on the other side of it.
type Native interface {
	Play()
	Pause()
	Reset()
	Seek(pos time.Duration)
	SwitchAsset(asset *models.Asset)
	LoadStream(asset *models.Asset, adTag string) error

	CurrentTime() time.Duration
	Duration() time.Duration
	State() State
	// Scrubbing reports whether the user is actively dragging a seek
	// control, which suppresses ordinary pause/resume semantics.
	Scrubbing() bool
	// Err returns the native error backing a StateError transition, if any.
	Err() error
}

// NativeConfig carries the feature flags a Native is built with.
type NativeConfig struct {
	Audio           bool
	Live            bool
	ControlsVisible bool
}

// Factory builds a Native wired to the given notification channels.
type Factory func(cfg NativeConfig, notifs *Notifications) (Native, error)

// Notifications is the per-instance event channel object a Native
// publishes into. Each player owns one, so there is no process-wide
// notification bus and no stringly-typed event names to tear down.
type Notifications struct {
	StateChanged chan State
	Minimise     chan struct{}
	OutputButton chan struct{}
}

func NewNotifications() *Notifications {
	return &Notifications{
		StateChanged: make(chan State, 16),
		Minimise:     make(chan struct{}, 1),
		OutputButton: make(chan struct{}, 1),
	}
}

// PublishState hands a state transition to the coordinator without
// blocking the native side. Transitions are delivered in publish order.
func (n *Notifications) PublishState(s State) {
	select {
	case n.StateChanged <- s:
	default:
	}
}

func (n *Notifications) PublishMinimise() {
	select {
	case n.Minimise <- struct{}{}:
	default:
	}
}

func (n *Notifications) PublishOutputButton() {
	select {
	case n.OutputButton <- struct{}{}:
	default:
	}
}
