// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package reactions keeps one reaction per (answer, reactor) and the answer's
// denormalised reaction count in step with it.
package reactions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
)

type Ledger struct {
	store *store.Store
	now   func() time.Time
}

func NewLedger(s *store.Store) *Ledger {
	return &Ledger{store: s, now: time.Now}
}

// Add records actorID's reaction and returns the new count. Deleted answers
// and answers hidden by a block both look missing.
func (l *Ledger) Add(ctx context.Context, actorID, answerID string) (int, error) {
	answer, err := l.visibleAnswer(ctx, actorID, answerID)
	if err != nil {
		return 0, err
	}
	if answer.UserID == actorID {
		return 0, errs.ErrSelfReaction
	}

	count, err := l.store.AddReaction(ctx, answerID, actorID, l.now())
	if errors.Is(err, store.ErrDuplicate) {
		return 0, errs.ErrDuplicateReaction
	}
	if err != nil {
		return 0, fmt.Errorf("failed to add reaction: %w", err)
	}
	slog.Debug("reaction added", "answer_id", answerID, "reactor_id", actorID, "count", count)
	return count, nil
}

// Remove drops actorID's reaction. A counter already at zero is left alone.
func (l *Ledger) Remove(ctx context.Context, actorID, answerID string) (int, error) {
	if _, err := l.visibleAnswer(ctx, actorID, answerID); err != nil {
		return 0, err
	}

	count, err := l.store.RemoveReaction(ctx, answerID, actorID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to remove reaction: %w", err)
	}
	slog.Debug("reaction removed", "answer_id", answerID, "reactor_id", actorID, "count", count)
	return count, nil
}

func (l *Ledger) visibleAnswer(ctx context.Context, actorID, answerID string) (models.Answer, error) {
	answer, err := l.store.GetAnswer(ctx, answerID)
	if err != nil {
		return models.Answer{}, err
	}
	if answer.IsDeleted {
		return models.Answer{}, errs.ErrNotFound
	}
	if answer.UserID != actorID {
		blocked, err := l.store.IsBlockedEither(ctx, actorID, answer.UserID)
		if err != nil {
			return models.Answer{}, fmt.Errorf("failed to check block: %w", err)
		}
		if blocked {
			return models.Answer{}, errs.ErrNotFound
		}
	}
	return answer, nil
}
