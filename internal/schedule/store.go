package schedule

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound is returned when no record exists for the user.
	ErrUserNotFound = errors.New("schedule: user not found")
	// ErrBlockIndex is returned when a block index is out of range.
	ErrBlockIndex = errors.New("schedule: block index out of range")
)

// BlockPatch carries optional field updates for EditBlock.
// Nil fields keep the stored value.
type BlockPatch struct {
	Title *string
	Start *string
	End   *string
}

// Store persists user records and their schedules.
// Implementations must be safe for concurrent use.
type Store interface {
	// EnsureUser creates a record with an empty schedule if none exists.
	EnsureUser(ctx context.Context, userID int64, firstName, lastName string) error

	// DayBlocks returns a copy of the block list for the given day.
	DayBlocks(ctx context.Context, userID int64, day Day) ([]Block, error)

	// AddBlock appends a block to the day, truncating the title to MaxTitleLen.
	AddBlock(ctx context.Context, userID int64, day Day, b Block) error

	// EditBlock applies a patch to the block at index.
	EditBlock(ctx context.Context, userID int64, day Day, index int, patch BlockPatch) error

	// DeleteBlock removes the block at index, shifting later blocks down.
	DeleteBlock(ctx context.Context, userID int64, day Day, index int) error

	// CopyDay replaces dst's blocks with a deep copy of src's blocks.
	CopyDay(ctx context.Context, userID int64, src, dst Day) error

	// ClearDay removes all blocks from the day.
	ClearDay(ctx context.Context, userID int64, day Day) error
}
