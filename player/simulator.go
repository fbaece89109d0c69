package player

import (
	"errors"
	"sync"
	"time"

	"github.com/sambatech/player-sdk-go/models"
)

// simulatedDuration is what on-demand media reports when the stream
// itself can't tell us. Live media reports zero.
const simulatedDuration = 5 * time.Minute

// Simulator is a Native implementation that plays against the wall
// clock: the playhead advances in real time and the stream finishes by
// itself when it runs out. The daemon uses it in place of a vendored
// playback engine and the coordinator tests drive it directly.
type Simulator struct {
	mu         sync.Mutex
	cfg        NativeConfig
	notifs     *Notifications
	state      State
	asset      *models.Asset
	duration   time.Duration
	pos        time.Duration
	resumedAt  time.Time
	scrubbing  bool
	err        error
	generation int
	finish     *time.Timer
}

// SimulatorFactory builds a Simulator; hand it to New.
func SimulatorFactory(cfg NativeConfig, notifs *Notifications) (Native, error) {
	return &Simulator{cfg: cfg, notifs: notifs, state: StateEmpty}, nil
}

func (s *Simulator) LoadStream(asset *models.Asset, adTag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset == nil || asset.URL == nil {
		return errors.New("no asset to load")
	}
	s.asset = asset
	s.duration = simulatedDuration
	if s.cfg.Live {
		s.duration = 0
	}
	s.pos = 0
	s.setStateLocked(StateReadyToPlay)
	return nil
}

func (s *Simulator) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil || s.state == StatePlaying {
		return
	}
	if s.state == StateFinished {
		s.pos = 0
	}
	// A real engine buffers briefly before frames roll; surface the
	// transition even though it lasts no time here.
	s.setStateLocked(StateBuffering)
	s.resumedAt = time.Now()
	s.setStateLocked(StatePlaying)
	s.armFinishLocked()
}

func (s *Simulator) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying {
		return
	}
	s.pos = s.positionLocked()
	s.generation++
	s.setStateLocked(StatePaused)
}

func (s *Simulator) Seek(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return
	}
	wasPlaying := s.state == StatePlaying
	s.setStateLocked(StateSeeking)
	if pos < 0 {
		pos = 0
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	s.pos = pos
	s.resumedAt = time.Now()
	s.generation++
	if wasPlaying {
		s.setStateLocked(StatePlaying)
		s.armFinishLocked()
	} else {
		s.setStateLocked(StatePaused)
	}
}

func (s *Simulator) SwitchAsset(asset *models.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if asset == nil {
		return
	}
	// Live swap: the playhead carries over to the new rendition.
	if s.state == StatePlaying {
		s.pos = s.positionLocked()
		s.resumedAt = time.Now()
	}
	s.asset = asset
}

func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asset = nil
	s.pos = 0
	s.generation++
	if s.finish != nil {
		s.finish.Stop()
		s.finish = nil
	}
	s.state = StateEmpty
}

func (s *Simulator) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *Simulator) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *Simulator) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Simulator) Scrubbing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrubbing
}

// SetScrubbing mimics the user grabbing or releasing the seek control.
func (s *Simulator) SetScrubbing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrubbing = v
}

func (s *Simulator) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Fail injects a native error and publishes the Error state.
func (s *Simulator) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	s.setStateLocked(StateError)
}

func (s *Simulator) positionLocked() time.Duration {
	pos := s.pos
	if s.state == StatePlaying {
		pos += time.Since(s.resumedAt)
	}
	if s.duration > 0 && pos > s.duration {
		pos = s.duration
	}
	return pos
}

func (s *Simulator) setStateLocked(state State) {
	s.state = state
	s.notifs.PublishState(state)
}

// armFinishLocked schedules the natural end of the stream. A generation
// counter guards against timers from a superseded play run firing late.
func (s *Simulator) armFinishLocked() {
	if s.duration <= 0 {
		return
	}
	gen := s.generation
	remaining := s.duration - s.pos
	if s.finish != nil {
		s.finish.Stop()
	}
	s.finish = time.AfterFunc(remaining, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation != gen || s.state != StatePlaying {
			return
		}
		s.pos = s.duration
		s.setStateLocked(StateFinished)
	})
}
