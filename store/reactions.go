// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/dailyq/errs"
)

// AddReaction inserts the reaction row and increments the answer's counter in
// one transaction. Returns ErrDuplicate if the reactor already reacted.
func (s *Store) AddReaction(ctx context.Context, answerID, reactorID string, at time.Time) (int, error) {
	var count int
	err := s.tx(ctx, "add_reaction", func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO reaction (answer_id, reactor_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (answer_id, reactor_id) DO NOTHING
		`, answerID, reactorID, at.UTC())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrDuplicate
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE answer SET reaction_count = COALESCE(reaction_count, 0) + 1 WHERE id = $1
		`, answerID); err != nil {
			return err
		}

		count, err = reactionCount(ctx, tx, answerID)
		return err
	})
	return count, err
}

// RemoveReaction deletes the reaction row and decrements the counter, never
// below zero. A counter already at zero counts as converged, not as an error.
// Returns errs.ErrNotFound if the reactor had not reacted.
func (s *Store) RemoveReaction(ctx context.Context, answerID, reactorID string) (int, error) {
	var count int
	err := s.tx(ctx, "remove_reaction", func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM reaction WHERE answer_id = $1 AND reactor_id = $2
		`, answerID, reactorID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return errs.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE answer SET reaction_count = reaction_count - 1
			WHERE id = $1 AND reaction_count > 0
		`, answerID); err != nil {
			return err
		}

		count, err = reactionCount(ctx, tx, answerID)
		return err
	})
	return count, err
}

func reactionCount(ctx context.Context, tx *sql.Tx, answerID string) (int, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT reaction_count FROM answer WHERE id = $1
	`, answerID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errs.ErrNotFound
	}
	return count, err
}

func (s *Store) HasReacted(ctx context.Context, answerID, reactorID string) (bool, error) {
	var exists bool
	err := s.call(ctx, "has_reacted", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM reaction WHERE answer_id = $1 AND reactor_id = $2
			)
		`, answerID, reactorID).Scan(&exists)
	})
	return exists, err
}
