package jsonstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
)

func newTestSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore(t)

	st := session.DialogState{
		Action: session.ActionAdd,
		Step:   session.StepAskStart,
		Day:    schedule.Wednesday,
		Data:   session.BlockDraft{Title: "Обед"},
	}
	if err := s.SetState(ctx, 7, st); err != nil {
		t.Fatal(err)
	}
	got, err := s.State(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got != st {
		t.Errorf("state = %+v, want %+v", got, st)
	}
}

func TestStateForUnknownUserIsZero(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore(t)
	got, err := s.State(ctx, 123)
	if err != nil {
		t.Fatal(err)
	}
	if got.InDialog() || got.Day != "" {
		t.Errorf("zero state expected, got %+v", got)
	}
}

func TestClearDialogPreservesDayContext(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore(t)

	if err := s.SetDay(ctx, 7, schedule.Thursday, 555); err != nil {
		t.Fatal(err)
	}
	st, err := s.State(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	st.Action = session.ActionEdit
	st.Step = session.StepAskIndex
	st.Data.Index = 2
	if err := s.SetState(ctx, 7, st); err != nil {
		t.Fatal(err)
	}

	if err := s.ClearDialog(ctx, 7); err != nil {
		t.Fatal(err)
	}
	got, err := s.State(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.InDialog() {
		t.Errorf("dialog not cleared: %+v", got)
	}
	if got.Day != schedule.Thursday || got.DayMessageID != 555 {
		t.Errorf("day context lost: %+v", got)
	}
	if got.Data != (session.BlockDraft{}) {
		t.Errorf("draft not reset: %+v", got.Data)
	}
}
