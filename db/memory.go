package db

import (
	"embed"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sambatech/player-sdk-go/models"
)

// MemoryStore keeps sessions in memory. It backs the daemon when no DB
// path is configured and doubles as a lightweight Store for tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions []SessionEntry
	events   []LifecycleEvent
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ApplyMigrations(_ embed.FS) error {
	return nil
}

func (s *MemoryStore) StartSession(media models.Media, output string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for i := range s.sessions {
		if s.sessions[i].IsActive {
			s.sessions[i].IsActive = false
			s.sessions[i].Status = "stopped"
			s.sessions[i].UpdatedAt = now
		}
	}

	entry := SessionEntry{
		ID:        uuid.NewString(),
		MediaID:   media.StorageID(),
		Title:     media.Title,
		Category:  media.Category(),
		Output:    output,
		StartedAt: now,
		Status:    "loaded",
		IsActive:  true,
		UpdatedAt: now,
	}
	s.sessions = append(s.sessions, entry)
	return entry.ID, nil
}

func (s *MemoryStore) RecordEvent(sessionID, event string, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.events = append(s.events, LifecycleEvent{
		ID:        s.nextID,
		SessionID: sessionID,
		Event:     event,
		Position:  int(position.Milliseconds()),
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (s *MemoryStore) UpdateProgress(sessionID string, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID && s.sessions[i].IsActive {
			s.sessions[i].Elapsed = int(elapsed.Milliseconds())
			s.sessions[i].Status = "playing"
			s.sessions[i].UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (s *MemoryStore) EndSession(sessionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sessions {
		if s.sessions[i].ID == sessionID {
			s.sessions[i].IsActive = false
			s.sessions[i].Status = status
			s.sessions[i].UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (s *MemoryStore) ActiveSession() (*SessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sessions) - 1; i >= 0; i-- {
		if s.sessions[i].IsActive {
			entry := s.sessions[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) GetHistory(limit int) ([]SessionEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("must request at least one historical item")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []SessionEntry
	for _, entry := range s.sessions {
		if !entry.IsActive {
			results = append(results, entry)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *MemoryStore) GetEvents(sessionID string) ([]LifecycleEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var results []LifecycleEvent
	for _, e := range s.events {
		if e.SessionID == sessionID {
			results = append(results, e)
		}
	}
	return results, nil
}
