package jobs

import (
	"log/slog"
	"sync"

	"github.com/sambatech/player-sdk-go/db"
	"github.com/sambatech/player-sdk-go/player"
)

// SessionRecorder persists a player's lifecycle into the session store:
// a session opens on load, collects events while it lives and closes on
// finish, destroy or error. Store failures are logged and swallowed;
// persistence must never disturb playback.
type SessionRecorder struct {
	mu        sync.Mutex
	player    *player.Player
	store     db.Store
	sessionID string
}

func NewSessionRecorder(p *player.Player, store db.Store) *SessionRecorder {
	return &SessionRecorder{player: p, store: store}
}

func (r *SessionRecorder) OnLoad() {
	media := r.player.Media()
	if media == nil {
		return
	}
	output := ""
	if idx := r.player.OutputIndex(); idx >= 0 && idx < len(media.Outputs) {
		output = media.Outputs[idx].Label
	}

	sessionID, err := r.store.StartSession(*media, output)
	if err != nil {
		slog.Error("Failed to open playback session",
			slog.String("media_id", media.StorageID()),
			slog.Any("error", err))
		return
	}

	r.mu.Lock()
	r.sessionID = sessionID
	r.mu.Unlock()
	r.record("load")
}

func (r *SessionRecorder) OnStart()  { r.record("start") }
func (r *SessionRecorder) OnResume() { r.record("resume") }
func (r *SessionRecorder) OnPause()  { r.record("pause") }

// OnProgress is intentionally not persisted per tick; the snapshot job
// folds progress into the session once a second instead.
func (r *SessionRecorder) OnProgress() {}

func (r *SessionRecorder) OnFinish() {
	r.record("finish")
	r.close("finished")
}

func (r *SessionRecorder) OnDestroy() {
	r.record("destroy")
	r.close("destroyed")
}

func (r *SessionRecorder) OnError(err *player.Error) {
	r.record("error")
	r.close("error")
}

// Flush writes the current playhead into the active session. Wired to
// the background scheduler.
func (r *SessionRecorder) Flush() {
	r.mu.Lock()
	sessionID := r.sessionID
	r.mu.Unlock()
	if sessionID == "" || !r.player.IsPlaying() {
		return
	}
	if err := r.store.UpdateProgress(sessionID, r.player.CurrentTime()); err != nil {
		slog.Error("Failed to flush playback progress", slog.Any("error", err))
	}
}

func (r *SessionRecorder) record(event string) {
	r.mu.Lock()
	sessionID := r.sessionID
	r.mu.Unlock()
	if sessionID == "" {
		return
	}
	if err := r.store.RecordEvent(sessionID, event, r.player.CurrentTime()); err != nil {
		slog.Error("Failed to record lifecycle event",
			slog.String("event", event),
			slog.Any("error", err))
	}
}

func (r *SessionRecorder) close(status string) {
	r.mu.Lock()
	sessionID := r.sessionID
	r.sessionID = ""
	r.mu.Unlock()
	if sessionID == "" {
		return
	}
	if err := r.store.EndSession(sessionID, status); err != nil {
		slog.Error("Failed to close playback session",
			slog.String("status", status),
			slog.Any("error", err))
	}
}
