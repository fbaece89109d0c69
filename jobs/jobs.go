package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
)

// SetupInBackground builds the scheduler carrying the daemon's periodic
// work. Callers start it with StartAsync once wiring is done.
func SetupInBackground(recorder *SessionRecorder) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)

	if _, err := s.Every(time.Second).Do(recorder.Flush); err != nil {
		return nil, err
	}

	return s, nil
}
