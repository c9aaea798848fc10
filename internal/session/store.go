package session

import (
	"context"

	"github.com/m3rciful/planbot/internal/schedule"
)

// Store persists dialog state across updates.
// Implementations must be safe for concurrent use.
type Store interface {
	// State returns the current dialog state; a zero value if none is stored.
	State(ctx context.Context, userID int64) (DialogState, error)

	// SetState replaces the stored state.
	SetState(ctx context.Context, userID int64, st DialogState) error

	// SetDay records the day context and the message carrying the day view.
	SetDay(ctx context.Context, userID int64, day schedule.Day, dayMessageID int) error

	// ClearDialog resets action, step and draft data while preserving
	// the day context and day message id.
	ClearDialog(ctx context.Context, userID int64) error
}
