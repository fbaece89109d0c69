package player

import (
	"time"

	"github.com/go-co-op/gocron"
)

const progressInterval = 250 * time.Millisecond

// progressTicker drives periodic progress callbacks while playback is
// active. Start always cancels any existing schedule first so the ticker
// never overlaps with itself; Stop is safe to call when not running.
// Both are only ever invoked from the dispatch loop.
type progressTicker struct {
	onTick    func()
	scheduler *gocron.Scheduler
}

func newProgressTicker(onTick func()) *progressTicker {
	return &progressTicker{onTick: onTick}
}

func (t *progressTicker) Start() {
	t.Stop()
	s := gocron.NewScheduler(time.UTC)
	s.Every(progressInterval).Do(t.onTick)
	s.StartAsync()
	t.scheduler = s
}

func (t *progressTicker) Stop() {
	if t.scheduler == nil {
		return
	}
	t.scheduler.Stop()
	t.scheduler = nil
}

func (t *progressTicker) Running() bool {
	return t.scheduler != nil
}
