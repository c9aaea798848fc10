package session

import (
	"context"
	"sync"

	"github.com/m3rciful/planbot/internal/schedule"
)

// MemoryStore keeps dialog state in process memory.
// Suitable for tests and single-instance deployments without persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]DialogState
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]DialogState)}
}

func (m *MemoryStore) State(_ context.Context, userID int64) (DialogState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.states[userID], nil
}

func (m *MemoryStore) SetState(_ context.Context, userID int64, st DialogState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
	return nil
}

func (m *MemoryStore) SetDay(_ context.Context, userID int64, day schedule.Day, dayMessageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[userID]
	st.Day = day
	st.DayMessageID = dayMessageID
	m.states[userID] = st
	return nil
}

func (m *MemoryStore) ClearDialog(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[userID]
	m.states[userID] = DialogState{Day: st.Day, DayMessageID: st.DayMessageID}
	return nil
}
