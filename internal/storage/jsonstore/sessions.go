package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"log/slog"
)

type sessionEntry struct {
	State session.DialogState `json:"state"`
}

// SessionStore implements session.Store on top of a single JSON file
// keyed by user ID.
type SessionStore struct {
	path string
	mu   sync.Mutex
}

// NewSessionStore creates a store backed by the given file path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

func (s *SessionStore) load() map[string]sessionEntry {
	sessions := make(map[string]sessionEntry)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Session.Warn("session file unreadable",
				slog.String("event", "session.load_failed"),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return sessions
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		logger.Session.Warn("session file malformed, starting empty",
			slog.String("event", "session.load_failed"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return make(map[string]sessionEntry)
	}
	return sessions
}

func (s *SessionStore) persist(sessions map[string]sessionEntry) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal sessions: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func (s *SessionStore) State(_ context.Context, userID int64) (session.DialogState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()[userKey(userID)].State, nil
}

func (s *SessionStore) SetState(_ context.Context, userID int64, st session.DialogState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.load()
	sessions[userKey(userID)] = sessionEntry{State: st}
	return s.persist(sessions)
}

func (s *SessionStore) SetDay(_ context.Context, userID int64, day schedule.Day, dayMessageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.load()
	entry := sessions[userKey(userID)]
	entry.State.Day = day
	entry.State.DayMessageID = dayMessageID
	sessions[userKey(userID)] = entry
	return s.persist(sessions)
}

func (s *SessionStore) ClearDialog(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := s.load()
	entry := sessions[userKey(userID)]
	sessions[userKey(userID)] = sessionEntry{State: session.DialogState{
		Day:          entry.State.Day,
		DayMessageID: entry.State.DayMessageID,
	}}
	return s.persist(sessions)
}
