// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/dailyq/answers"
	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
)

const historyLimit = 30

type AnswerHandler struct {
	svc *answers.Service
	cfg cliparse.Config
}

func NewAnswerHandler(svc *answers.Service, cfg cliparse.Config) *AnswerHandler {
	return &AnswerHandler{svc: svc, cfg: cfg}
}

// Submit handles POST /answers
// Answers today's published question
func (h *AnswerHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswerRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	answer, err := h.svc.Submit(r.Context(), middleware.UserID(r.Context()), req.QuestionID, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitAnswerResponse{
		AnswerID:     answer.ID,
		Date:         answer.Date,
		IsOnTime:     answer.IsOnTime,
		LateMinutes:  answer.LateMinutes,
		CreatedAt:    answer.CreatedAt,
		RenderedText: answer.RenderedText,
		IsFlagged:    answer.IsFlagged,
	})
}

// Delete handles DELETE /answers/{id}
// Soft-deletes the caller's answer
func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	answer, err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AnswerResponse{Answer: answer.View()})
}

// Restore handles POST /answers/{id}/restore
func (h *AnswerHandler) Restore(w http.ResponseWriter, r *http.Request) {
	answer, err := h.svc.Restore(r.Context(), middleware.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AnswerResponse{Answer: answer.View()})
}

// Today handles GET /today
// The question text is included only once it is published
func (h *AnswerHandler) Today(w http.ResponseWriter, r *http.Request) {
	today, err := h.svc.Today(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, today)
}

// MyHistory handles GET /me/answers
// Includes soft-deleted answers so they can be restored
func (h *AnswerHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	h.history(w, r, userID, userID)
}

// UserHistory handles GET /users/{id}/answers
func (h *AnswerHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, middleware.UserID(r.Context()), r.PathValue("id"))
}

func (h *AnswerHandler) history(w http.ResponseWriter, r *http.Request, viewerID, authorID string) {
	limit, err := parseLimit(r, historyLimit, models.MaxTimelineLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views, err := h.svc.History(r.Context(), viewerID, authorID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.AnswerHistoryResponse{Answers: views})
}
