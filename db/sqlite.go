package db

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/sambatech/player-sdk-go/models"

	_ "modernc.org/sqlite"
)

type SqliteStore struct {
	DB *sqlx.DB
}

func NewSqliteStore(dsn string) (*SqliteStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{DB: db}, nil
}

func (s *SqliteStore) ApplyMigrations(migrations embed.FS) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return err
	}

	if err := goose.Up(s.DB.DB, "."); err != nil {
		return err
	}

	return nil
}

// StartSession opens a fresh session for media, closing whatever session
// was still active. The media row is upserted; we've usually seen the
// item before and a no-op is perfectly fine.
func (s *SqliteStore) StartSession(media models.Media, output string) (string, error) {
	tx, err := s.DB.Beginx()
	if err != nil {
		return "", err
	}

	var committed bool
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	now := time.Now().UTC()

	_, err = tx.Exec(`
	  UPDATE playback_sessions
	  SET is_active = FALSE, status = 'stopped', updated_at = ?
	  WHERE is_active = TRUE`, now)
	if err != nil {
		return "", fmt.Errorf("failed to deactivate stale sessions: %w", err)
	}

	_, err = tx.Exec(`
	  INSERT INTO media_items (id, title, url, category, theme_colour, thumbnail_url)
	  VALUES (?, ?, ?, ?, ?, ?)
	  ON CONFLICT (id) DO NOTHING`,
		media.StorageID(), media.Title, media.URL, media.Category(), media.ThemeColour, media.ThumbnailURL)
	if err != nil {
		return "", fmt.Errorf("failed to insert media item: %w", err)
	}

	sessionID := uuid.NewString()
	_, err = tx.Exec(`
	  INSERT INTO playback_sessions (id, media_id, output, started_at, elapsed, status, is_active, updated_at)
	  VALUES (?, ?, ?, ?, 0, 'loaded', TRUE, ?)`,
		sessionID, media.StorageID(), output, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return sessionID, nil
}

func (s *SqliteStore) RecordEvent(sessionID, event string, position time.Duration) error {
	_, err := s.DB.Exec(`
	  INSERT INTO lifecycle_events (session_id, event, position, created_at)
	  VALUES (?, ?, ?, ?)`,
		sessionID, event, position.Milliseconds(), time.Now().UTC())
	return err
}

func (s *SqliteStore) UpdateProgress(sessionID string, elapsed time.Duration) error {
	_, err := s.DB.Exec(`
	  UPDATE playback_sessions
	  SET elapsed = ?, status = 'playing', updated_at = ?
	  WHERE id = ? AND is_active = TRUE`,
		elapsed.Milliseconds(), time.Now().UTC(), sessionID)
	return err
}

func (s *SqliteStore) EndSession(sessionID, status string) error {
	_, err := s.DB.Exec(`
	  UPDATE playback_sessions
	  SET is_active = FALSE, status = ?, updated_at = ?
	  WHERE id = ?`,
		status, time.Now().UTC(), sessionID)
	return err
}

const sessionColumns = `
	  s.id, s.media_id, m.title, m.category, s.output,
	  s.started_at, s.elapsed, s.status, s.is_active, s.updated_at
	  FROM playback_sessions s
	  JOIN media_items m ON m.id = s.media_id`

func (s *SqliteStore) ActiveSession() (*SessionEntry, error) {
	var entry SessionEntry
	err := s.DB.Get(&entry, `SELECT`+sessionColumns+`
	  WHERE s.is_active = TRUE
	  ORDER BY s.updated_at DESC LIMIT 1`)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *SqliteStore) GetHistory(limit int) ([]SessionEntry, error) {
	var results []SessionEntry

	if limit <= 0 {
		return results, fmt.Errorf("must request at least one historical item")
	}

	err := s.DB.Select(&results, `SELECT`+sessionColumns+`
	  WHERE s.is_active = FALSE
	  ORDER BY s.updated_at DESC
	  LIMIT ?`, limit)

	return results, err
}

func (s *SqliteStore) GetEvents(sessionID string) ([]LifecycleEvent, error) {
	var results []LifecycleEvent
	err := s.DB.Select(&results, `
	  SELECT id, session_id, event, position, created_at
	  FROM lifecycle_events
	  WHERE session_id = ?
	  ORDER BY id ASC`, sessionID)
	return results, err
}
