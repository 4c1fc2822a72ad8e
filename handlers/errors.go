// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/middleware"
)

// errorStatus maps each domain error to a status and a machine code.
// Order matters only in that the first match wins.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{errs.ErrValidation, http.StatusBadRequest, "validation_failed"},
	{errs.ErrNotFound, http.StatusNotFound, "not_found"},
	{errs.ErrNotOwner, http.StatusForbidden, "not_owner"},
	{errs.ErrWrongQuestion, http.StatusForbidden, "wrong_question"},
	{errs.ErrAlreadyAnswered, http.StatusConflict, "already_answered"},
	{errs.ErrDeletedExists, http.StatusConflict, "deleted_exists"},
	{errs.ErrAlreadyDeleted, http.StatusConflict, "already_deleted"},
	{errs.ErrNotDeleted, http.StatusConflict, "not_deleted"},
	{errs.ErrSelfReaction, http.StatusBadRequest, "self_reaction"},
	{errs.ErrDuplicateReaction, http.StatusConflict, "already_reacted"},
	{errs.ErrSelfRelation, http.StatusBadRequest, "self_relation"},
	{errs.ErrEmptyQuestionBank, http.StatusConflict, "empty_question_bank"},
}

// writeError maps err onto an HTTP error response. Unknown errors are logged
// and reported as a generic 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if !errors.Is(err, e.err) {
			continue
		}
		message := e.err.Error()
		if e.err == errs.ErrValidation {
			message = errs.Message(err)
		}
		middleware.ErrorCodeResponse(w, e.status, e.code, message)
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	middleware.ErrorCodeResponse(w, http.StatusInternalServerError, "internal", "Internal server error")
}

// parseLimit reads the optional limit query parameter.
func parseLimit(r *http.Request, def, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errs.Validation("limit must be a positive integer")
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
