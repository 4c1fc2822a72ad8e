// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/metrics"
)

var (
	// ErrConditionFailed means a conditional write found the record in a state
	// that did not satisfy its precondition. Callers decide whether that is benign.
	ErrConditionFailed = errors.New("conditional write rejected")

	// ErrDuplicate means an insert hit an existing key and wrote nothing.
	ErrDuplicate = errors.New("record already exists")

	// ErrUnknownOutcome means a write timed out and may or may not have committed.
	ErrUnknownOutcome = errors.New("write outcome unknown")
)

// Store is the single access path to persisted state. Every call runs with its
// own timeout and is attempted at most a fixed number of times.
type Store struct {
	db       *sql.DB
	timeout  time.Duration
	attempts int
}

func New(db *sql.DB, timeout time.Duration, attempts int) *Store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Store{db: db, timeout: timeout, attempts: attempts}
}

// call runs fn under a per-attempt timeout. Failures other than "not found",
// rejected conditions and caller cancellation are retried without backoff.
func (s *Store) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.attempt(ctx, op, false, fn)
}

// write is call for non-idempotent writes. An attempt that hit its timeout
// may have committed, so it is reported instead of retried.
func (s *Store) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return s.attempt(ctx, op, true, fn)
}

func (s *Store) attempt(ctx context.Context, op string, isWrite bool, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		var timedOut bool
		err = func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			err := fn(callCtx)
			timedOut = errors.Is(callCtx.Err(), context.DeadlineExceeded)
			return err
		}()
		if err == nil || !retryable(ctx, err) {
			return err
		}
		if isWrite && timedOut {
			return fmt.Errorf("%s: %w: %w", op, ErrUnknownOutcome, err)
		}
		metrics.StoreRetries.WithLabelValues(op).Inc()
		slog.Warn("store call failed", "op", op, "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	switch {
	case errors.Is(err, sql.ErrNoRows),
		errors.Is(err, errs.ErrNotFound),
		errors.Is(err, ErrConditionFailed),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// tx runs fn inside a transaction, committing only if fn succeeds.
func (s *Store) tx(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return s.write(ctx, op, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

// queryStrings runs a single-column query and collects the values.
func (s *Store) queryStrings(ctx context.Context, op, query string, args ...any) ([]string, error) {
	var out []string
	err := s.call(ctx, op, func(ctx context.Context) error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return err
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	return out, err
}

// placeholders returns "$from, $from+1, ..." for n arguments.
func placeholders(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(from+i)
	}
	return strings.Join(parts, ", ")
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}
