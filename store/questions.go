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

func (s *Store) CreateQuestion(ctx context.Context, q models.Question) error {
	return s.call(ctx, "create_question", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO question (id, text, last_used_date, created_at)
			VALUES ($1, $2, $3, $4)
		`, q.ID, q.Text, nullString(q.LastUsedDate), q.CreatedAt.UTC())
		return err
	})
}

func (s *Store) GetQuestion(ctx context.Context, id string) (models.Question, error) {
	var q models.Question
	err := s.call(ctx, "get_question", func(ctx context.Context) error {
		var lastUsed sql.NullString
		err := s.db.QueryRowContext(ctx, `
			SELECT id, text, last_used_date, created_at FROM question WHERE id = $1
		`, id).Scan(&q.ID, &q.Text, &lastUsed, &q.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		q.LastUsedDate = stringPtr(lastUsed)
		return err
	})
	return q, err
}

func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	err := s.call(ctx, "list_questions", func(ctx context.Context) error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, text, last_used_date, created_at FROM question ORDER BY created_at, id
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var q models.Question
			var lastUsed sql.NullString
			if err := rows.Scan(&q.ID, &q.Text, &lastUsed, &q.CreatedAt); err != nil {
				return err
			}
			q.LastUsedDate = stringPtr(lastUsed)
			out = append(out, q)
		}
		return rows.Err()
	})
	return out, err
}

// EligibleQuestionIDs returns questions never used or last used before cutoff
// (a DateLayout string; lexical order matches calendar order).
func (s *Store) EligibleQuestionIDs(ctx context.Context, cutoff string) ([]string, error) {
	return s.queryStrings(ctx, "eligible_questions", `
		SELECT id FROM question
		WHERE last_used_date IS NULL OR last_used_date < $1
		ORDER BY id
	`, cutoff)
}

func (s *Store) AllQuestionIDs(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "all_questions", `SELECT id FROM question ORDER BY id`)
}

func (s *Store) GetDailyQuestion(ctx context.Context, date string) (models.DailyQuestion, error) {
	var dq models.DailyQuestion
	err := s.call(ctx, "get_daily_question", func(ctx context.Context) error {
		var publishedAt sql.NullTime
		err := s.db.QueryRowContext(ctx, `
			SELECT date, question_id, scheduled_publish_time, published_at, created_at
			FROM daily_question WHERE date = $1
		`, date).Scan(&dq.Date, &dq.QuestionID, &dq.ScheduledPublishTime, &publishedAt, &dq.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		dq.PublishedAt = timePtr(publishedAt)
		return err
	})
	return dq, err
}

// CreateDailyQuestion inserts the day's row unless one already exists and marks
// the chosen question as used on that day. Returns ErrDuplicate when the day was
// already scheduled, in which case nothing is written.
func (s *Store) CreateDailyQuestion(ctx context.Context, dq models.DailyQuestion) error {
	return s.tx(ctx, "create_daily_question", func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO daily_question (date, question_id, scheduled_publish_time, published_at, created_at)
			VALUES ($1, $2, $3, NULL, $4)
			ON CONFLICT (date) DO NOTHING
		`, dq.Date, dq.QuestionID, dq.ScheduledPublishTime, dq.CreatedAt.UTC())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrDuplicate
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE question SET last_used_date = $1 WHERE id = $2
		`, dq.Date, dq.QuestionID)
		return err
	})
}

// MarkPublished sets published_at only if it is still unset. Returns
// ErrConditionFailed when the day is missing or already published.
func (s *Store) MarkPublished(ctx context.Context, date string, at time.Time) error {
	return s.write(ctx, "mark_published", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE daily_question SET published_at = $1
			WHERE date = $2 AND published_at IS NULL
		`, at.UTC(), date)
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
