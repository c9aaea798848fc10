package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/m3rciful/planbot/internal/schedule"
	"github.com/m3rciful/planbot/internal/session"
)

// SessionStore implements session.Store on an SQL database.
// The dialog snapshot is stored as a JSON document per user.
type SessionStore struct {
	db *sqlx.DB
}

// NewSessionStore wraps an open sqlx handle.
func NewSessionStore(db *sqlx.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) State(ctx context.Context, userID int64) (session.DialogState, error) {
	var raw string
	q := s.db.Rebind(`SELECT state FROM sessions WHERE user_id = ?`)
	if err := s.db.GetContext(ctx, &raw, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.DialogState{}, nil
		}
		return session.DialogState{}, fmt.Errorf("sqlstore: select session: %w", err)
	}
	var st session.DialogState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return session.DialogState{}, fmt.Errorf("sqlstore: decode session: %w", err)
	}
	return st, nil
}

func (s *SessionStore) SetState(ctx context.Context, userID int64, st session.DialogState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("sqlstore: encode session: %w", err)
	}
	q := s.db.Rebind(`INSERT INTO sessions (user_id, state) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET state = excluded.state`)
	if _, err := s.db.ExecContext(ctx, q, userID, string(raw)); err != nil {
		return fmt.Errorf("sqlstore: upsert session: %w", err)
	}
	return nil
}

func (s *SessionStore) SetDay(ctx context.Context, userID int64, day schedule.Day, dayMessageID int) error {
	st, err := s.State(ctx, userID)
	if err != nil {
		return err
	}
	st.Day = day
	st.DayMessageID = dayMessageID
	return s.SetState(ctx, userID, st)
}

func (s *SessionStore) ClearDialog(ctx context.Context, userID int64) error {
	st, err := s.State(ctx, userID)
	if err != nil {
		return err
	}
	return s.SetState(ctx, userID, session.DialogState{
		Day:          st.Day,
		DayMessageID: st.DayMessageID,
	})
}
