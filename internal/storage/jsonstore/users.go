// Package jsonstore persists user and session records as whole-file
// JSON documents. Every mutation rewrites the file under a store-level
// lock, which serialises concurrent updates at the cost of throughput.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/schedule"
	"log/slog"
)

// UserStore implements schedule.Store on top of a single JSON file
// keyed by user ID.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore creates a store backed by the given file path.
// The file is created on first write; a missing or malformed file
// reads as an empty document.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

func (s *UserStore) load() map[string]schedule.UserRecord {
	users := make(map[string]schedule.UserRecord)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Store.Warn("users file unreadable",
				slog.String("event", "store.load_failed"),
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return users
	}
	if err := json.Unmarshal(data, &users); err != nil {
		logger.Store.Warn("users file malformed, starting empty",
			slog.String("event", "store.load_failed"),
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return make(map[string]schedule.UserRecord)
	}
	return users
}

func (s *UserStore) persist(users map[string]schedule.UserRecord) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: marshal users: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic writes via a temp file and rename so readers never
// observe a partially written document.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jsonstore: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("jsonstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("jsonstore: rename: %w", err)
	}
	return nil
}

func userKey(userID int64) string { return strconv.FormatInt(userID, 10) }

func (s *UserStore) EnsureUser(_ context.Context, userID int64, firstName, lastName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	key := userKey(userID)
	if _, ok := users[key]; ok {
		return nil
	}
	users[key] = schedule.NewUserRecord(firstName, lastName)
	if err := s.persist(users); err != nil {
		return err
	}
	logger.Store.Info("user created",
		slog.String("event", "store.user_created"),
		slog.Int64("user_id", userID),
	)
	return nil
}

func (s *UserStore) DayBlocks(_ context.Context, userID int64, day schedule.Day) ([]schedule.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	rec, ok := users[userKey(userID)]
	if !ok {
		return nil, schedule.ErrUserNotFound
	}
	blocks := rec.Schedule[day]
	out := make([]schedule.Block, len(blocks))
	copy(out, blocks)
	return out, nil
}

func (s *UserStore) AddBlock(_ context.Context, userID int64, day schedule.Day, b schedule.Block) error {
	return s.mutate(userID, day, func(blocks []schedule.Block) ([]schedule.Block, error) {
		b.Title = schedule.TruncateTitle(b.Title)
		return append(blocks, b), nil
	})
}

func (s *UserStore) EditBlock(_ context.Context, userID int64, day schedule.Day, index int, patch schedule.BlockPatch) error {
	return s.mutate(userID, day, func(blocks []schedule.Block) ([]schedule.Block, error) {
		if index < 0 || index >= len(blocks) {
			return nil, schedule.ErrBlockIndex
		}
		if patch.Title != nil {
			blocks[index].Title = schedule.TruncateTitle(*patch.Title)
		}
		if patch.Start != nil {
			blocks[index].Start = *patch.Start
		}
		if patch.End != nil {
			blocks[index].End = *patch.End
		}
		return blocks, nil
	})
}

func (s *UserStore) DeleteBlock(_ context.Context, userID int64, day schedule.Day, index int) error {
	return s.mutate(userID, day, func(blocks []schedule.Block) ([]schedule.Block, error) {
		if index < 0 || index >= len(blocks) {
			return nil, schedule.ErrBlockIndex
		}
		return append(blocks[:index], blocks[index+1:]...), nil
	})
}

func (s *UserStore) CopyDay(_ context.Context, userID int64, src, dst schedule.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	key := userKey(userID)
	rec, ok := users[key]
	if !ok {
		return schedule.ErrUserNotFound
	}
	srcBlocks := rec.Schedule[src]
	copied := make([]schedule.Block, len(srcBlocks))
	copy(copied, srcBlocks)
	rec.Schedule[dst] = copied
	users[key] = rec
	return s.persist(users)
}

func (s *UserStore) ClearDay(_ context.Context, userID int64, day schedule.Day) error {
	return s.mutate(userID, day, func([]schedule.Block) ([]schedule.Block, error) {
		return []schedule.Block{}, nil
	})
}

// mutate runs a load-modify-persist cycle for a single day under the lock.
func (s *UserStore) mutate(userID int64, day schedule.Day, fn func([]schedule.Block) ([]schedule.Block, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.load()
	key := userKey(userID)
	rec, ok := users[key]
	if !ok {
		return schedule.ErrUserNotFound
	}
	blocks := make([]schedule.Block, len(rec.Schedule[day]))
	copy(blocks, rec.Schedule[day])

	updated, err := fn(blocks)
	if err != nil {
		return err
	}
	if rec.Schedule == nil {
		rec.Schedule = make(schedule.Schedule)
	}
	rec.Schedule[day] = updated
	users[key] = rec
	return s.persist(users)
}
