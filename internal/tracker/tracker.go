// Package tracker collects transient dialog messages (prompts and user
// replies) so they can be wiped from the chat once a dialog finishes.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/m3rciful/planbot/core/logger"
	"log/slog"
)

// Deleter removes a message from a chat.
type Deleter interface {
	Delete(chatID int64, messageID int) error
}

type tracked struct {
	chatID    int64
	messageID int
}

// Tracker accumulates message IDs per user and deletes them in a batch,
// optionally after a delay. A pending delayed batch can be flushed early
// when the user starts a new dialog.
type Tracker struct {
	deleter Deleter

	mu       sync.Mutex
	messages map[int64][]tracked
	pending  map[int64]*pendingBatch
}

type pendingBatch struct {
	timer    *time.Timer
	messages []tracked
}

// New creates a tracker that deletes through the given deleter.
func New(deleter Deleter) *Tracker {
	return &Tracker{
		deleter:  deleter,
		messages: make(map[int64][]tracked),
		pending:  make(map[int64]*pendingBatch),
	}
}

// Track remembers a message for later cleanup.
func (t *Tracker) Track(userID, chatID int64, messageID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages[userID] = append(t.messages[userID], tracked{chatID: chatID, messageID: messageID})
}

// Clear takes the user's tracked messages and deletes them after delay.
// A zero delay deletes synchronously.
func (t *Tracker) Clear(ctx context.Context, userID int64, delay time.Duration) {
	t.mu.Lock()
	batch := t.messages[userID]
	delete(t.messages, userID)
	if len(batch) == 0 {
		t.mu.Unlock()
		return
	}
	if delay <= 0 {
		t.mu.Unlock()
		t.deleteBatch(ctx, userID, batch)
		return
	}

	pb := &pendingBatch{messages: batch}
	pb.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		if t.pending[userID] == pb {
			delete(t.pending, userID)
		}
		t.mu.Unlock()
		t.deleteBatch(context.Background(), userID, batch)
	})
	// An older pending batch is flushed right away: its delay has
	// effectively expired from the user's point of view.
	prev := t.pending[userID]
	t.pending[userID] = pb
	t.mu.Unlock()

	if prev != nil && prev.timer.Stop() {
		t.deleteBatch(ctx, userID, prev.messages)
	}
}

// CancelPending flushes any delayed batch for the user immediately.
// Used when a new dialog starts before the previous cleanup fired.
func (t *Tracker) CancelPending(ctx context.Context, userID int64) {
	t.mu.Lock()
	pb := t.pending[userID]
	delete(t.pending, userID)
	t.mu.Unlock()

	if pb != nil && pb.timer.Stop() {
		t.deleteBatch(ctx, userID, pb.messages)
	}
}

func (t *Tracker) deleteBatch(ctx context.Context, userID int64, batch []tracked) {
	failed := 0
	for _, m := range batch {
		if err := t.deleter.Delete(m.chatID, m.messageID); err != nil {
			failed++
			logger.Debug(ctx, "tracker", "tracker.delete_failed",
				slog.Int64("user_id", userID),
				slog.Int64("chat_id", m.chatID),
				slog.Int("message_id", m.messageID),
				slog.String("err", err.Error()),
			)
		}
	}
	logger.Debug(ctx, "tracker", "tracker.cleared",
		slog.Int64("user_id", userID),
		slog.Int("count", len(batch)),
		slog.Int("failed", failed),
	)
}
