// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package answers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/filter"
	"github.com/danielhkuo/dailyq/metrics"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
)

// linkPattern matches anything that looks like a URL or a bare domain.
var linkPattern = regexp.MustCompile(`(?i)(\b[a-z][a-z0-9+.-]*://|\bwww\.|\b[a-z0-9-]+\.(com|net|org|io|co|jp|app|dev|me|ly|gg|xyz)\b)`)

// Service runs the answer lifecycle: submit, soft delete, restore.
type Service struct {
	store  *store.Store
	loc    *time.Location
	maxLen int
	onTime time.Duration
	now    func() time.Time
}

func NewService(s *store.Store, cfg cliparse.Config) *Service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:  s,
		loc:    loc,
		maxLen: cfg.MaxAnswerLength,
		onTime: cfg.OnTimeWindow,
		now:    time.Now,
	}
}

// DateOf returns the home-zone date for t.
func (s *Service) DateOf(t time.Time) string {
	return t.In(s.loc).Format(models.DateLayout)
}

// Submit records the user's answer to today's published question.
func (s *Service) Submit(ctx context.Context, userID, questionID, text string) (models.Answer, error) {
	text = strings.TrimSpace(text)
	if err := s.validate(text); err != nil {
		return models.Answer{}, err
	}

	now := s.now()
	date := s.DateOf(now)
	dq, err := s.store.GetDailyQuestion(ctx, date)
	if errors.Is(err, errs.ErrNotFound) {
		return models.Answer{}, errs.ErrWrongQuestion
	}
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to load daily question: %w", err)
	}
	if dq.QuestionID != questionID || !dq.IsPublished() {
		return models.Answer{}, errs.ErrWrongQuestion
	}

	if existing, err := s.store.FindAnswer(ctx, userID, questionID); err == nil {
		return models.Answer{}, conflict(existing)
	} else if !errors.Is(err, errs.ErrNotFound) {
		return models.Answer{}, fmt.Errorf("failed to check existing answer: %w", err)
	}

	terms, err := s.store.BannedTerms(ctx)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to load banned terms: %w", err)
	}
	verdict := filter.Apply(text, terms)
	onTime, late := Classify(dq.PublishedAt, now, s.onTime)

	answer := models.Answer{
		ID:           uuid.NewString(),
		UserID:       userID,
		QuestionID:   questionID,
		Date:         date,
		RawText:      text,
		RenderedText: verdict.RenderedText,
		IsFlagged:    verdict.IsFlagged,
		IsOnTime:     onTime,
		LateMinutes:  late,
		CreatedAt:    now.UTC(),
	}
	if verdict.IsFlagged {
		answer.FlagReason = &verdict.Reason
	}

	if err := s.store.InsertAnswer(ctx, answer); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return models.Answer{}, fmt.Errorf("failed to save answer: %w", err)
		}
		existing, raceErr := s.lostRace(ctx, userID, questionID, date)
		if existing.ID != answer.ID {
			return models.Answer{}, raceErr
		}
		// Our own insert committed on an attempt that was then retried.
		answer = existing
	}

	metrics.AnswersSubmitted.WithLabelValues(timeliness(onTime), strconv.FormatBool(verdict.IsFlagged)).Inc()
	slog.Info("answer submitted",
		"answer_id", answer.ID,
		"user_id", userID,
		"date", date,
		"on_time", onTime,
		"late_minutes", late,
		"flagged", verdict.IsFlagged,
	)
	return answer, nil
}

func (s *Service) validate(text string) error {
	if text == "" {
		return errs.Validation("answer text is required")
	}
	if n := utf8.RuneCountInString(text); s.maxLen > 0 && n > s.maxLen {
		return errs.Validation("answer must be at most %d characters", s.maxLen)
	}
	if linkPattern.MatchString(text) {
		return errs.Validation("answers cannot contain links")
	}
	return nil
}

// lostRace resolves an insert that collided with an existing answer by
// reading back whichever answer is stored, along with the conflict it means.
func (s *Service) lostRace(ctx context.Context, userID, questionID, date string) (models.Answer, error) {
	existing, err := s.store.FindAnswer(ctx, userID, questionID)
	if errors.Is(err, errs.ErrNotFound) {
		existing, err = s.store.FindAnswerForDate(ctx, userID, date)
	}
	if err != nil {
		return models.Answer{}, errs.ErrAlreadyAnswered
	}
	return existing, conflict(existing)
}

func conflict(existing models.Answer) error {
	if existing.IsDeleted {
		return errs.ErrDeletedExists
	}
	return errs.ErrAlreadyAnswered
}

func timeliness(onTime bool) string {
	if onTime {
		return "on_time"
	}
	return "late"
}

// Delete soft-deletes the caller's answer. Everything but the deleted flag
// and timestamp is kept, reaction count included.
func (s *Service) Delete(ctx context.Context, userID, answerID string) (models.Answer, error) {
	a, err := s.owned(ctx, userID, answerID)
	if err != nil {
		return models.Answer{}, err
	}
	if a.IsDeleted {
		return models.Answer{}, errs.ErrAlreadyDeleted
	}

	if err := s.store.SoftDeleteAnswer(ctx, answerID, s.now()); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return models.Answer{}, errs.ErrAlreadyDeleted
		}
		return models.Answer{}, fmt.Errorf("failed to delete answer: %w", err)
	}
	slog.Info("answer deleted", "answer_id", answerID, "user_id", userID)
	return s.store.GetAnswer(ctx, answerID)
}

// Restore brings back a soft-deleted answer exactly as it was.
func (s *Service) Restore(ctx context.Context, userID, answerID string) (models.Answer, error) {
	a, err := s.owned(ctx, userID, answerID)
	if err != nil {
		return models.Answer{}, err
	}
	if !a.IsDeleted {
		return models.Answer{}, errs.ErrNotDeleted
	}

	if err := s.store.RestoreAnswer(ctx, answerID); err != nil {
		if errors.Is(err, store.ErrConditionFailed) {
			return models.Answer{}, errs.ErrNotDeleted
		}
		return models.Answer{}, fmt.Errorf("failed to restore answer: %w", err)
	}
	slog.Info("answer restored", "answer_id", answerID, "user_id", userID)
	return s.store.GetAnswer(ctx, answerID)
}

// owned loads an answer the caller may modify. Someone on the other side of a
// block sees not found rather than learning the answer exists.
func (s *Service) owned(ctx context.Context, userID, answerID string) (models.Answer, error) {
	a, err := s.store.GetAnswer(ctx, answerID)
	if err != nil {
		return models.Answer{}, err
	}
	if a.UserID == userID {
		return a, nil
	}
	blocked, err := s.store.IsBlockedEither(ctx, userID, a.UserID)
	if err != nil {
		return models.Answer{}, fmt.Errorf("failed to check block: %w", err)
	}
	if blocked {
		return models.Answer{}, errs.ErrNotFound
	}
	return models.Answer{}, errs.ErrNotOwner
}

// Today describes today's question as the user sees it. The question itself
// is withheld until it is published.
func (s *Service) Today(ctx context.Context, userID string) (models.TodayResponse, error) {
	date := s.DateOf(s.now())
	resp := models.TodayResponse{Date: date}

	dq, err := s.store.GetDailyQuestion(ctx, date)
	if errors.Is(err, errs.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return resp, fmt.Errorf("failed to load daily question: %w", err)
	}
	if !dq.IsPublished() {
		return resp, nil
	}

	q, err := s.store.GetQuestion(ctx, dq.QuestionID)
	if err != nil {
		return resp, fmt.Errorf("failed to load question: %w", err)
	}
	resp.IsPublished = true
	resp.PublishedAt = dq.PublishedAt
	resp.Question = &q

	a, err := s.store.FindAnswer(ctx, userID, dq.QuestionID)
	if errors.Is(err, errs.ErrNotFound) {
		return resp, nil
	}
	if err != nil {
		return resp, fmt.Errorf("failed to load answer: %w", err)
	}
	view := a.View()
	resp.HasAnswered = !a.IsDeleted
	resp.UserAnswer = &view
	return resp, nil
}

// History lists an author's answers, newest first. Authors see their deleted
// answers too; anyone else sees only live ones, and nothing at all under a block.
func (s *Service) History(ctx context.Context, viewerID, authorID string, limit int) ([]models.AnswerView, error) {
	own := viewerID == authorID
	if !own {
		blocked, err := s.store.IsBlockedEither(ctx, viewerID, authorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check block: %w", err)
		}
		if blocked {
			return nil, errs.ErrNotFound
		}
	}

	list, err := s.store.ListAnswersByUser(ctx, authorID, own, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	views := make([]models.AnswerView, len(list))
	for i, a := range list {
		views[i] = a.View()
	}
	return views, nil
}
