// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/dailyq/auth"
	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/scheduler"
	"github.com/danielhkuo/dailyq/store"
)

// AdminHandler serves moderator operations. Every route requires X-Admin-Key.
type AdminHandler struct {
	store  *store.Store
	runner *scheduler.Runner
	cfg    cliparse.Config
}

func NewAdminHandler(s *store.Store, runner *scheduler.Runner, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{store: s, runner: runner, cfg: cfg}
}

// CreateQuestion handles POST /admin/questions
func (h *AdminHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, r, errs.Validation("text is required"))
		return
	}

	id, err := auth.GenerateID(12)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := models.Question{ID: id, Text: text, CreatedAt: time.Now().UTC()}
	if err := h.store.CreateQuestion(r.Context(), q); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("question added", "question_id", q.ID)
	middleware.JSONResponse(w, http.StatusCreated, q)
}

// ListQuestions handles GET /admin/questions
func (h *AdminHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.store.ListQuestions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}
	middleware.JSONResponse(w, http.StatusOK, models.QuestionsResponse{Questions: questions})
}

// AddBannedTerm handles POST /admin/banned-terms
// Takes effect on the next submission
func (h *AdminHandler) AddBannedTerm(w http.ResponseWriter, r *http.Request) {
	var req models.BannedTermRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Term) == "" {
		writeError(w, r, errs.Validation("term is required"))
		return
	}

	if err := h.store.AddBannedTerm(r.Context(), req.Term, time.Now()); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeTerms(w, r, http.StatusCreated)
}

// ListBannedTerms handles GET /admin/banned-terms
func (h *AdminHandler) ListBannedTerms(w http.ResponseWriter, r *http.Request) {
	h.writeTerms(w, r, http.StatusOK)
}

// DeleteBannedTerm handles DELETE /admin/banned-terms/{term}
func (h *AdminHandler) DeleteBannedTerm(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBannedTerm(r.Context(), r.PathValue("term")); err != nil {
		writeError(w, r, err)
		return
	}
	h.writeTerms(w, r, http.StatusOK)
}

func (h *AdminHandler) writeTerms(w http.ResponseWriter, r *http.Request, status int) {
	terms, err := h.store.BannedTerms(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if terms == nil {
		terms = []string{}
	}
	middleware.JSONResponse(w, status, models.BannedTermsResponse{Terms: terms})
}

// RunJob handles POST /admin/jobs/{job}
// Runs the select or publish job now; both are safe to repeat
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	job := r.PathValue("job")
	if job != scheduler.JobSelect && job != scheduler.JobPublish {
		middleware.ErrorCodeResponse(w, http.StatusNotFound, "not_found", "job must be select or publish")
		return
	}

	outcome, err := h.runner.Run(r.Context(), job)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("job run by admin", "job", job, "outcome", outcome)
	middleware.JSONResponse(w, http.StatusOK, models.JobRunResponse{Job: job, Outcome: outcome})
}
