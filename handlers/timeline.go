// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/reactions"
	"github.com/danielhkuo/dailyq/timeline"
)

type TimelineHandler struct {
	assembler *timeline.Assembler
	ledger    *reactions.Ledger
}

func NewTimelineHandler(assembler *timeline.Assembler, ledger *reactions.Ledger) *TimelineHandler {
	return &TimelineHandler{assembler: assembler, ledger: ledger}
}

// GetTimeline handles GET /timeline?date=YYYY-MM-DD&limit=N
func (h *TimelineHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, models.DefaultTimelineLimit, models.MaxTimelineLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	feed, err := h.assembler.Build(r.Context(), middleware.UserID(r.Context()), r.URL.Query().Get("date"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, feed)
}

// AddReaction handles PUT /answers/{id}/reaction
func (h *TimelineHandler) AddReaction(w http.ResponseWriter, r *http.Request) {
	answerID := r.PathValue("id")
	count, err := h.ledger.Add(r.Context(), middleware.UserID(r.Context()), answerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReactionResponse{
		AnswerID:      answerID,
		ReactionCount: count,
		HasReacted:    true,
	})
}

// RemoveReaction handles DELETE /answers/{id}/reaction
func (h *TimelineHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	answerID := r.PathValue("id")
	count, err := h.ledger.Remove(r.Context(), middleware.UserID(r.Context()), answerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ReactionResponse{
		AnswerID:      answerID,
		ReactionCount: count,
		HasReacted:    false,
	})
}
