// Package dialog implements the multi-step block editing conversation:
// add, edit and delete flows driven by plain text replies.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
	"github.com/m3rciful/planbot/internal/tracker"
	"log/slog"
)

// Renderer delivers dialog prompts and keeps the day view current.
type Renderer interface {
	// Prompt sends a plain text message and returns its message ID.
	Prompt(ctx context.Context, chatID int64, text string) (int, error)
	// RefreshDay redraws the day view message with the stored schedule.
	RefreshDay(ctx context.Context, userID, chatID int64, messageID int, day schedule.Day) error
}

const defaultClearDelay = time.Second

var startSteps = map[session.Action]session.Step{
	session.ActionAdd:    session.StepAskTitle,
	session.ActionEdit:   session.StepAskIndex,
	session.ActionDelete: session.StepDelete,
}

var startPrompts = map[session.Action]string{
	session.ActionAdd:    msgAskTitleAdd,
	session.ActionEdit:   msgAskIndexEdit,
	session.ActionDelete: msgAskIndexDelete,
}

// Machine drives dialogs across updates using persisted session state.
type Machine struct {
	sessions   session.Store
	store      schedule.Store
	tracker    *tracker.Tracker
	view       Renderer
	clearDelay time.Duration
}

// NewMachine wires the dialog machine. clearDelay <= 0 selects the default
// one-second delay before dialog messages are wiped.
func NewMachine(sessions session.Store, store schedule.Store, tr *tracker.Tracker, view Renderer, clearDelay time.Duration) *Machine {
	if clearDelay <= 0 {
		clearDelay = defaultClearDelay
	}
	return &Machine{
		sessions:   sessions,
		store:      store,
		tracker:    tr,
		view:       view,
		clearDelay: clearDelay,
	}
}

// InProgress reports whether the user has an active dialog.
func (m *Machine) InProgress(ctx context.Context, userID int64) bool {
	st, err := m.sessions.State(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "dialog", "dialog.state_failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return false
	}
	return st.InDialog()
}

// Start begins a dialog for the given action on the user's selected day.
// A pending message cleanup from a previous dialog is flushed first.
func (m *Machine) Start(ctx context.Context, userID, chatID int64, action session.Action) error {
	step, ok := startSteps[action]
	if !ok {
		return fmt.Errorf("dialog: unsupported action %q", action)
	}

	st, err := m.sessions.State(ctx, userID)
	if err != nil {
		return fmt.Errorf("dialog: read state: %w", err)
	}
	if !st.Day.Valid() {
		return errors.New("dialog: no day selected")
	}

	m.tracker.CancelPending(ctx, userID)

	st.Action = action
	st.Step = step
	st.Data = session.BlockDraft{}
	if err := m.sessions.SetState(ctx, userID, st); err != nil {
		return fmt.Errorf("dialog: write state: %w", err)
	}

	logger.Info(ctx, "dialog", "dialog.start",
		slog.Int64("user_id", userID),
		slog.String("action", string(action)),
		slog.String("day", string(st.Day)),
	)
	return m.prompt(ctx, userID, chatID, startPrompts[action])
}

// Reset aborts any active dialog and wipes its messages immediately.
func (m *Machine) Reset(ctx context.Context, userID int64) error {
	m.tracker.CancelPending(ctx, userID)
	if err := m.sessions.ClearDialog(ctx, userID); err != nil {
		return fmt.Errorf("dialog: clear state: %w", err)
	}
	m.tracker.Clear(ctx, userID, 0)
	return nil
}

// HandleText advances the dialog with the user's reply. The incoming
// message is tracked so the whole exchange can be wiped on completion.
func (m *Machine) HandleText(ctx context.Context, userID, chatID int64, messageID int, text string) error {
	st, err := m.sessions.State(ctx, userID)
	if err != nil {
		return fmt.Errorf("dialog: read state: %w", err)
	}
	if !st.InDialog() {
		return nil
	}

	m.tracker.Track(userID, chatID, messageID)
	text = strings.TrimSpace(text)

	switch st.Step {
	case session.StepDelete:
		idx, ok := parseIndex(text)
		if !ok {
			return m.prompt(ctx, userID, chatID, msgBadIndex)
		}
		day := st.Day
		return m.finish(ctx, userID, chatID, st, func() error {
			return m.store.DeleteBlock(ctx, userID, day, idx-1)
		})

	case session.StepAskIndex:
		idx, ok := parseIndex(text)
		if !ok {
			return m.prompt(ctx, userID, chatID, msgBadIndex)
		}
		st.Data.Index = idx
		st.Step = session.StepAskTitle
		if err := m.sessions.SetState(ctx, userID, st); err != nil {
			return fmt.Errorf("dialog: write state: %w", err)
		}
		return m.prompt(ctx, userID, chatID, msgAskTitleEdit)

	case session.StepAskTitle:
		st.Data.Title = schedule.TruncateTitle(text)
		st.Step = session.StepAskStart
		if err := m.sessions.SetState(ctx, userID, st); err != nil {
			return fmt.Errorf("dialog: write state: %w", err)
		}
		return m.prompt(ctx, userID, chatID, msgAskStart)

	case session.StepAskStart:
		start, ok := schedule.NormalizeTime(text)
		if !ok {
			return m.prompt(ctx, userID, chatID, msgBadStart)
		}
		st.Data.Start = start
		st.Step = session.StepAskEnd
		if err := m.sessions.SetState(ctx, userID, st); err != nil {
			return fmt.Errorf("dialog: write state: %w", err)
		}
		return m.prompt(ctx, userID, chatID, msgAskEnd)

	case session.StepAskEnd:
		end, ok := schedule.NormalizeTime(text)
		if !ok {
			return m.prompt(ctx, userID, chatID, msgBadEnd)
		}
		if !schedule.IsEndAfterStart(st.Data.Start, end) {
			return m.prompt(ctx, userID, chatID, msgEndBeforeStart)
		}
		st.Data.End = end
		return m.commitBlock(ctx, userID, chatID, st)

	default:
		logger.Warn(ctx, "dialog", "dialog.unknown_step",
			slog.Int64("user_id", userID),
			slog.String("step", string(st.Step)),
		)
		return m.Reset(ctx, userID)
	}
}

func (m *Machine) commitBlock(ctx context.Context, userID, chatID int64, st session.DialogState) error {
	day := st.Day
	draft := st.Data
	switch st.Action {
	case session.ActionAdd:
		return m.finish(ctx, userID, chatID, st, func() error {
			return m.store.AddBlock(ctx, userID, day, schedule.Block{
				Title: draft.Title,
				Start: draft.Start,
				End:   draft.End,
			})
		})
	case session.ActionEdit:
		return m.finish(ctx, userID, chatID, st, func() error {
			return m.store.EditBlock(ctx, userID, day, draft.Index-1, schedule.BlockPatch{
				Title: &draft.Title,
				Start: &draft.Start,
				End:   &draft.End,
			})
		})
	default:
		return m.Reset(ctx, userID)
	}
}

// finish commits the action, reports the outcome, refreshes the day view
// and schedules cleanup of the dialog messages.
func (m *Machine) finish(ctx context.Context, userID, chatID int64, st session.DialogState, commit func() error) error {
	outcome := msgActionDone
	commitErr := commit()
	if commitErr != nil {
		outcome = msgActionFailed
		logger.Warn(ctx, "dialog", "dialog.commit_failed",
			slog.Int64("user_id", userID),
			slog.String("action", string(st.Action)),
			slog.String("day", string(st.Day)),
			slog.String("err", commitErr.Error()),
		)
	} else {
		logger.Info(ctx, "dialog", "dialog.done",
			slog.Int64("user_id", userID),
			slog.String("action", string(st.Action)),
			slog.String("day", string(st.Day)),
		)
	}

	if err := m.prompt(ctx, userID, chatID, outcome); err != nil {
		return err
	}

	// Day view refresh is best effort: a stale view must not fail the dialog
	if st.DayMessageID != 0 {
		if err := m.view.RefreshDay(ctx, userID, chatID, st.DayMessageID, st.Day); err != nil {
			logger.Debug(ctx, "dialog", "dialog.refresh_failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := m.sessions.ClearDialog(ctx, userID); err != nil {
		return fmt.Errorf("dialog: clear state: %w", err)
	}
	m.tracker.Clear(ctx, userID, m.clearDelay)
	return nil
}

func (m *Machine) prompt(ctx context.Context, userID, chatID int64, text string) error {
	msgID, err := m.view.Prompt(ctx, chatID, text)
	if err != nil {
		return fmt.Errorf("dialog: prompt: %w", err)
	}
	m.tracker.Track(userID, chatID, msgID)
	return nil
}

// parseIndex accepts a positive 1-based block number.
func parseIndex(text string) (int, bool) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
