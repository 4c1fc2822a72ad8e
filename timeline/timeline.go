// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
)

// lookupLimit caps concurrent per-answer lookups.
const lookupLimit = 8

// Assembler builds a viewer's feed for one day.
type Assembler struct {
	store  *store.Store
	loc    *time.Location
	onTime time.Duration
	now    func() time.Time
}

func NewAssembler(s *store.Store, cfg cliparse.Config) *Assembler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Assembler{store: s, loc: loc, onTime: cfg.OnTimeWindow, now: time.Now}
}

// Build returns the viewer's feed for date (today when empty). A day with no
// question yields an empty feed.
func (a *Assembler) Build(ctx context.Context, viewerID, date string, limit int) (models.TimelineResponse, error) {
	if date == "" {
		date = a.now().In(a.loc).Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.TimelineResponse{}, errs.Validation("date must be YYYY-MM-DD")
	}
	limit = clampLimit(limit)
	resp := models.TimelineResponse{Date: date, Items: []models.TimelineItem{}}

	var (
		followees  []string
		blocked    []string
		dq         *models.DailyQuestion
		dayAnswers []models.Answer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		followees, err = a.store.Followees(gctx, viewerID)
		return err
	})
	g.Go(func() (err error) {
		blocked, err = a.store.BlockedEither(gctx, viewerID)
		return err
	})
	g.Go(func() error {
		d, err := a.store.GetDailyQuestion(gctx, date)
		if errors.Is(err, errs.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		dq = &d
		return nil
	})
	g.Go(func() (err error) {
		dayAnswers, err = a.store.ListAnswersByDate(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return resp, fmt.Errorf("failed to load timeline inputs: %w", err)
	}
	if dq == nil || !dq.IsPublished() {
		return resp, nil
	}

	visible := Visible(dayAnswers, viewerID, followees, blocked)
	Sort(visible)
	if len(visible) > limit {
		visible = visible[:limit]
	}

	var (
		question models.Question
		authors  map[string]models.User
		reacted  = make([]bool, len(visible))
	)
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(lookupLimit)
	g.Go(func() (err error) {
		question, err = a.store.GetQuestion(gctx, dq.QuestionID)
		return err
	})
	g.Go(func() (err error) {
		ids := lo.Uniq(lo.Map(visible, func(ans models.Answer, _ int) string { return ans.UserID }))
		authors, err = a.store.GetUsers(gctx, ids)
		return err
	})
	for i, ans := range visible {
		g.Go(func() (err error) {
			reacted[i], err = a.store.HasReacted(gctx, ans.ID, viewerID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return resp, fmt.Errorf("failed to decorate timeline: %w", err)
	}

	resp.Question = &question
	deadline := dq.PublishedAt.Add(a.onTime)
	for i, ans := range visible {
		author, ok := authors[ans.UserID]
		if !ok {
			author = models.User{ID: ans.UserID}
		}
		item := models.TimelineItem{
			AnswerID:      ans.ID,
			RenderedText:  ans.RenderedText,
			IsOnTime:      ans.IsOnTime,
			LateMinutes:   ans.LateMinutes,
			ReactionCount: ans.ReactionCount,
			HasReacted:    reacted[i],
			Author:        author.Snippet(),
			CreatedAt:     ans.CreatedAt,
			IsOwn:         ans.UserID == viewerID,
		}
		if !ans.IsOnTime {
			item.LateLabel = humanize.RelTime(deadline, ans.CreatedAt, "late", "early")
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

// Visible keeps live answers that are the viewer's own, or written by someone
// the viewer follows with no block between them in either direction.
func Visible(all []models.Answer, viewerID string, followees, blocked []string) []models.Answer {
	following := lo.Associate(followees, func(id string) (string, bool) { return id, true })
	hidden := lo.Associate(blocked, func(id string) (string, bool) { return id, true })

	return lo.Filter(all, func(ans models.Answer, _ int) bool {
		if ans.IsDeleted {
			return false
		}
		if ans.UserID == viewerID {
			return true
		}
		return following[ans.UserID] && !hidden[ans.UserID]
	})
}

// Sort orders on-time answers before late ones, then by creation time, then by id.
func Sort(list []models.Answer) {
	slices.SortFunc(list, func(x, y models.Answer) int {
		if x.IsOnTime != y.IsOnTime {
			if x.IsOnTime {
				return -1
			}
			return 1
		}
		if c := x.CreatedAt.Compare(y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return models.DefaultTimelineLimit
	case limit > models.MaxTimelineLimit:
		return models.MaxTimelineLimit
	}
	return limit
}
