// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
)

const answerColumns = `id, user_id, question_id, date, raw_text, rendered_text, is_flagged, flag_reason,
	is_on_time, late_minutes, is_deleted, deleted_at, reaction_count, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAnswer(row scanner) (models.Answer, error) {
	var a models.Answer
	var flagReason sql.NullString
	var deletedAt sql.NullTime
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.QuestionID,
		&a.Date,
		&a.RawText,
		&a.RenderedText,
		&a.IsFlagged,
		&flagReason,
		&a.IsOnTime,
		&a.LateMinutes,
		&a.IsDeleted,
		&deletedAt,
		&a.ReactionCount,
		&a.CreatedAt,
	)
	a.FlagReason = stringPtr(flagReason)
	a.DeletedAt = timePtr(deletedAt)
	a.CreatedAt = a.CreatedAt.UTC()
	return a, err
}

// InsertAnswer writes a new answer unless one already exists for the same
// (date, user) or (user, question). Returns ErrDuplicate in that case; the
// unique keys close the race between two concurrent submissions.
func (s *Store) InsertAnswer(ctx context.Context, a models.Answer) error {
	return s.write(ctx, "insert_answer", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO answer (`+answerColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NULL, 0, $11)
			ON CONFLICT DO NOTHING
		`,
			a.ID, a.UserID, a.QuestionID, a.Date, a.RawText, a.RenderedText,
			a.IsFlagged, nullString(a.FlagReason), a.IsOnTime, a.LateMinutes, a.CreatedAt.UTC(),
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrDuplicate
		}
		return nil
	})
}

func (s *Store) GetAnswer(ctx context.Context, id string) (models.Answer, error) {
	return s.getAnswer(ctx, "get_answer", `SELECT `+answerColumns+` FROM answer WHERE id = $1`, id)
}

// FindAnswer returns the user's answer to a question, live or soft-deleted.
func (s *Store) FindAnswer(ctx context.Context, userID, questionID string) (models.Answer, error) {
	return s.getAnswer(ctx, "find_answer", `
		SELECT `+answerColumns+` FROM answer WHERE user_id = $1 AND question_id = $2
	`, userID, questionID)
}

// FindAnswerForDate returns the user's answer for a calendar day, live or soft-deleted.
func (s *Store) FindAnswerForDate(ctx context.Context, userID, date string) (models.Answer, error) {
	return s.getAnswer(ctx, "find_answer_for_date", `
		SELECT `+answerColumns+` FROM answer WHERE user_id = $1 AND date = $2
	`, userID, date)
}

func (s *Store) getAnswer(ctx context.Context, op, query string, args ...any) (models.Answer, error) {
	var a models.Answer
	err := s.call(ctx, op, func(ctx context.Context) error {
		var err error
		a, err = scanAnswer(s.db.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	})
	return a, err
}

// ListAnswersByDate scans every answer for a day, deleted ones included.
func (s *Store) ListAnswersByDate(ctx context.Context, date string) ([]models.Answer, error) {
	return s.listAnswers(ctx, "list_answers_by_date", `
		SELECT `+answerColumns+` FROM answer WHERE date = $1
	`, date)
}

// ListAnswersByUser returns a user's answers, newest day first.
func (s *Store) ListAnswersByUser(ctx context.Context, userID string, includeDeleted bool, limit int) ([]models.Answer, error) {
	return s.listAnswers(ctx, "list_answers_by_user", `
		SELECT `+answerColumns+` FROM answer
		WHERE user_id = $1 AND ($2 OR is_deleted = FALSE)
		ORDER BY date DESC
		LIMIT $3
	`, userID, includeDeleted, limit)
}

func (s *Store) listAnswers(ctx context.Context, op, query string, args ...any) ([]models.Answer, error) {
	var out []models.Answer
	err := s.call(ctx, op, func(ctx context.Context) error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAnswer(rows)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	return out, err
}

// SoftDeleteAnswer hides a live answer. Returns ErrConditionFailed if the answer
// is missing or already deleted.
func (s *Store) SoftDeleteAnswer(ctx context.Context, id string, at time.Time) error {
	return s.conditionalUpdate(ctx, "soft_delete_answer", `
		UPDATE answer SET is_deleted = TRUE, deleted_at = $1
		WHERE id = $2 AND is_deleted = FALSE
	`, at.UTC(), id)
}

// RestoreAnswer brings back a soft-deleted answer untouched, reaction count included.
// Returns ErrConditionFailed if the answer is missing or not deleted.
func (s *Store) RestoreAnswer(ctx context.Context, id string) error {
	return s.conditionalUpdate(ctx, "restore_answer", `
		UPDATE answer SET is_deleted = FALSE, deleted_at = NULL
		WHERE id = $1 AND is_deleted = TRUE
	`, id)
}

func (s *Store) conditionalUpdate(ctx context.Context, op, query string, args ...any) error {
	return s.write(ctx, op, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConditionFailed
		}
		return nil
	})
}
