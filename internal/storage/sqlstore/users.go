// Package sqlstore persists user schedules and dialog sessions in SQL
// via sqlx. It works against both PostgreSQL and SQLite; queries use
// "?" placeholders and are rebound per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/m3rciful/planbot/internal/schedule"
)

// UserStore implements schedule.Store on an SQL database.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore wraps an open sqlx handle.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

type blockRow struct {
	Title string `db:"title"`
	Start string `db:"start_time"`
	End   string `db:"end_time"`
}

func (s *UserStore) EnsureUser(ctx context.Context, userID int64, firstName, lastName string) error {
	todo, err := json.Marshal([]string{})
	if err != nil {
		return fmt.Errorf("sqlstore: marshal todolist: %w", err)
	}
	q := s.db.Rebind(`INSERT INTO users (user_id, first_name, last_name, todolist)
		VALUES (?, ?, ?, ?) ON CONFLICT (user_id) DO NOTHING`)
	if _, err := s.db.ExecContext(ctx, q, userID, firstName, lastName, string(todo)); err != nil {
		return fmt.Errorf("sqlstore: ensure user: %w", err)
	}
	return nil
}

func (s *UserStore) userExists(ctx context.Context, q sqlx.QueryerContext, userID int64) error {
	var one int
	query := s.db.Rebind(`SELECT 1 FROM users WHERE user_id = ?`)
	if err := sqlx.GetContext(ctx, q, &one, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.ErrUserNotFound
		}
		return fmt.Errorf("sqlstore: lookup user: %w", err)
	}
	return nil
}

func (s *UserStore) DayBlocks(ctx context.Context, userID int64, day schedule.Day) ([]schedule.Block, error) {
	if err := s.userExists(ctx, s.db, userID); err != nil {
		return nil, err
	}
	var rows []blockRow
	q := s.db.Rebind(`SELECT title, start_time, end_time FROM blocks
		WHERE user_id = ? AND day = ? ORDER BY position`)
	if err := s.db.SelectContext(ctx, &rows, q, userID, string(day)); err != nil {
		return nil, fmt.Errorf("sqlstore: select blocks: %w", err)
	}
	blocks := make([]schedule.Block, len(rows))
	for i, r := range rows {
		blocks[i] = schedule.Block{Title: r.Title, Start: r.Start, End: r.End}
	}
	return blocks, nil
}

func (s *UserStore) AddBlock(ctx context.Context, userID int64, day schedule.Day, b schedule.Block) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userExists(ctx, tx, userID); err != nil {
			return err
		}
		q := tx.Rebind(`INSERT INTO blocks (user_id, day, position, title, start_time, end_time)
			SELECT ?, ?, COALESCE(MAX(position), -1) + 1, ?, ?, ?
			FROM blocks WHERE user_id = ? AND day = ?`)
		_, err := tx.ExecContext(ctx, q,
			userID, string(day), schedule.TruncateTitle(b.Title), b.Start, b.End,
			userID, string(day))
		if err != nil {
			return fmt.Errorf("sqlstore: insert block: %w", err)
		}
		return nil
	})
}

func (s *UserStore) EditBlock(ctx context.Context, userID int64, day schedule.Day, index int, patch schedule.BlockPatch) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userExists(ctx, tx, userID); err != nil {
			return err
		}
		var row blockRow
		q := tx.Rebind(`SELECT title, start_time, end_time FROM blocks
			WHERE user_id = ? AND day = ? AND position = ?`)
		if err := tx.GetContext(ctx, &row, q, userID, string(day), index); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return schedule.ErrBlockIndex
			}
			return fmt.Errorf("sqlstore: select block: %w", err)
		}
		if patch.Title != nil {
			row.Title = schedule.TruncateTitle(*patch.Title)
		}
		if patch.Start != nil {
			row.Start = *patch.Start
		}
		if patch.End != nil {
			row.End = *patch.End
		}
		upd := tx.Rebind(`UPDATE blocks SET title = ?, start_time = ?, end_time = ?
			WHERE user_id = ? AND day = ? AND position = ?`)
		if _, err := tx.ExecContext(ctx, upd, row.Title, row.Start, row.End, userID, string(day), index); err != nil {
			return fmt.Errorf("sqlstore: update block: %w", err)
		}
		return nil
	})
}

func (s *UserStore) DeleteBlock(ctx context.Context, userID int64, day schedule.Day, index int) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userExists(ctx, tx, userID); err != nil {
			return err
		}
		del := tx.Rebind(`DELETE FROM blocks WHERE user_id = ? AND day = ? AND position = ?`)
		res, err := tx.ExecContext(ctx, del, userID, string(day), index)
		if err != nil {
			return fmt.Errorf("sqlstore: delete block: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return schedule.ErrBlockIndex
		}
		// Close the gap so positions stay dense
		shift := tx.Rebind(`UPDATE blocks SET position = position - 1
			WHERE user_id = ? AND day = ? AND position > ?`)
		if _, err := tx.ExecContext(ctx, shift, userID, string(day), index); err != nil {
			return fmt.Errorf("sqlstore: shift blocks: %w", err)
		}
		return nil
	})
}

func (s *UserStore) CopyDay(ctx context.Context, userID int64, src, dst schedule.Day) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userExists(ctx, tx, userID); err != nil {
			return err
		}
		del := tx.Rebind(`DELETE FROM blocks WHERE user_id = ? AND day = ?`)
		if _, err := tx.ExecContext(ctx, del, userID, string(dst)); err != nil {
			return fmt.Errorf("sqlstore: clear destination day: %w", err)
		}
		cp := tx.Rebind(`INSERT INTO blocks (user_id, day, position, title, start_time, end_time)
			SELECT user_id, ?, position, title, start_time, end_time
			FROM blocks WHERE user_id = ? AND day = ?`)
		if _, err := tx.ExecContext(ctx, cp, string(dst), userID, string(src)); err != nil {
			return fmt.Errorf("sqlstore: copy day: %w", err)
		}
		return nil
	})
}

func (s *UserStore) ClearDay(ctx context.Context, userID int64, day schedule.Day) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.userExists(ctx, tx, userID); err != nil {
			return err
		}
		q := tx.Rebind(`DELETE FROM blocks WHERE user_id = ? AND day = ?`)
		if _, err := tx.ExecContext(ctx, q, userID, string(day)); err != nil {
			return fmt.Errorf("sqlstore: clear day: %w", err)
		}
		return nil
	})
}

func (s *UserStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}
