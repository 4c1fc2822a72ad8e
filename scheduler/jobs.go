// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/notify"
	"github.com/danielhkuo/dailyq/store"
)

// Outcomes reported by a job run
const (
	OutcomeScheduled        = "scheduled"
	OutcomeExists           = "exists"
	OutcomePublished        = "published"
	OutcomeOutsideWindow    = "outside_window"
	OutcomeNotScheduled     = "not_scheduled"
	OutcomeAlreadyPublished = "already_published"
	OutcomeNotDue           = "not_due"
	OutcomeLostRace         = "lost_race"
)

// ReuseCooldown is how long a question rests before it is preferred again.
const ReuseCooldown = 30

// Announcer is told once when a day's question goes live.
type Announcer interface {
	Publish(ctx context.Context, a notify.Announcement) (notify.Report, error)
}

// Jobs holds the two scheduled operations. They share no in-process state;
// the daily_question row is the only coordination point.
type Jobs struct {
	store     *store.Store
	announcer Announcer
	loc       *time.Location
	window    Window

	// rng is shared by cron firings and manual runs.
	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewJobs(s *store.Store, announcer Announcer, loc *time.Location, window Window, rng *rand.Rand) *Jobs {
	if loc == nil {
		loc = time.UTC
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Jobs{store: s, announcer: announcer, loc: loc, window: window, rng: rng}
}

// Location is the home zone that defines calendar days.
func (j *Jobs) Location() *time.Location {
	return j.loc
}

// SelectAndSchedule picks the question and publish time for the day containing now.
// Running it again for a scheduled day changes nothing.
func (j *Jobs) SelectAndSchedule(ctx context.Context, now time.Time) (string, error) {
	local := now.In(j.loc)
	date := local.Format(models.DateLayout)

	if _, err := j.store.GetDailyQuestion(ctx, date); err == nil {
		return OutcomeExists, nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return "", fmt.Errorf("failed to read daily question: %w", err)
	}

	cutoff := local.AddDate(0, 0, -ReuseCooldown).Format(models.DateLayout)
	pool, err := j.store.EligibleQuestionIDs(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("failed to load eligible questions: %w", err)
	}
	if len(pool) == 0 {
		pool, err = j.store.AllQuestionIDs(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load question bank: %w", err)
		}
	}
	if len(pool) == 0 {
		return "", errs.ErrEmptyQuestionBank
	}

	questionID, publishTime := j.pick(pool)

	err = j.store.CreateDailyQuestion(ctx, models.DailyQuestion{
		Date:                 date,
		QuestionID:           questionID,
		ScheduledPublishTime: publishTime,
		CreatedAt:            now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		// Another run scheduled the day between our read and write.
		return OutcomeExists, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to schedule daily question: %w", err)
	}

	slog.Info("daily question scheduled",
		"date", date,
		"question_id", questionID,
		"publish_time", publishTime,
		"pool_size", len(pool),
	)
	return OutcomeScheduled, nil
}

func (j *Jobs) pick(pool []string) (questionID, publishTime string) {
	j.rngMu.Lock()
	defer j.rngMu.Unlock()
	return pool[j.rng.IntN(len(pool))], j.window.Pick(j.rng)
}

// CheckAndPublish publishes the day's question once its scheduled time has
// passed. Exactly one caller wins the publish and only that caller announces it.
func (j *Jobs) CheckAndPublish(ctx context.Context, now time.Time) (string, error) {
	local := now.In(j.loc)
	if !j.window.Contains(local) {
		return OutcomeOutsideWindow, nil
	}

	date := local.Format(models.DateLayout)
	dq, err := j.store.GetDailyQuestion(ctx, date)
	if errors.Is(err, errs.ErrNotFound) {
		return OutcomeNotScheduled, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read daily question: %w", err)
	}
	if dq.IsPublished() {
		return OutcomeAlreadyPublished, nil
	}
	if local.Format(models.ClockLayout) < dq.ScheduledPublishTime {
		return OutcomeNotDue, nil
	}

	err = j.store.MarkPublished(ctx, date, now)
	if errors.Is(err, store.ErrConditionFailed) {
		return OutcomeLostRace, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to publish daily question: %w", err)
	}
	slog.Info("daily question published", "date", date, "question_id", dq.QuestionID, "scheduled", dq.ScheduledPublishTime)

	j.announce(ctx, dq)
	return OutcomePublished, nil
}

// announce is best-effort; the publish already happened.
func (j *Jobs) announce(ctx context.Context, dq models.DailyQuestion) {
	if j.announcer == nil {
		return
	}
	q, err := j.store.GetQuestion(ctx, dq.QuestionID)
	if err != nil {
		slog.Error("failed to load question for announcement", "date", dq.Date, "error", err)
		return
	}
	if _, err := j.announcer.Publish(ctx, notify.Announcement{
		Date:         dq.Date,
		QuestionID:   q.ID,
		QuestionText: q.Text,
	}); err != nil {
		slog.Error("failed to announce question", "date", dq.Date, "error", err)
	}
}
