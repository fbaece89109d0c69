package db

import (
	"embed"
	"time"

	"github.com/sambatech/player-sdk-go/models"
)

// SessionEntry is one playback session joined with its media metadata,
// shaped for clients that want to render full history rows.
type SessionEntry struct {
	ID        string    `db:"id" json:"id"`
	MediaID   string    `db:"media_id" json:"media_id"`
	Title     string    `db:"title" json:"title"`
	Category  string    `db:"category" json:"category"`
	Output    string    `db:"output" json:"output"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	Elapsed   int       `db:"elapsed" json:"elapsed_ms"`
	Status    string    `db:"status" json:"status"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LifecycleEvent is one recorded lifecycle notification within a session.
type LifecycleEvent struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Event     string    `db:"event" json:"event"`
	Position  int       `db:"position" json:"position_ms"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Store persists playback sessions and their lifecycle events. A session
// opens when media loads and closes on finish, destroy or error; at most
// one session is active at a time.
type Store interface {
	ApplyMigrations(migrations embed.FS) error
	StartSession(media models.Media, output string) (string, error)
	RecordEvent(sessionID, event string, position time.Duration) error
	UpdateProgress(sessionID string, elapsed time.Duration) error
	EndSession(sessionID, status string) error
	ActiveSession() (*SessionEntry, error)
	GetHistory(limit int) ([]SessionEntry, error)
	GetEvents(sessionID string) ([]LifecycleEvent, error)
}
