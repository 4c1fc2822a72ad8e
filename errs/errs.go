// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package errs holds the error taxonomy shared by the services and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks malformed or oversized input. The wrapped message is
	// returned to the caller verbatim.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is also returned when a block relationship hides a record.
	ErrNotFound = errors.New("not found")

	ErrNotOwner      = errors.New("not the owner")
	ErrWrongQuestion = errors.New("question is not today's published question")

	ErrAlreadyAnswered = errors.New("already answered today's question")
	ErrDeletedExists   = errors.New("a deleted answer exists for this question; restore it instead")
	ErrAlreadyDeleted  = errors.New("answer is already deleted")
	ErrNotDeleted      = errors.New("answer is not deleted")

	ErrSelfReaction      = errors.New("cannot react to your own answer")
	ErrDuplicateReaction = errors.New("already reacted to this answer")
	ErrSelfRelation      = errors.New("cannot follow or block yourself")

	// ErrEmptyQuestionBank fails a select run when no question exists at all.
	ErrEmptyQuestionBank = errors.New("question bank is empty")
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Message returns the caller-facing part of a validation error.
func Message(err error) string {
	return strings.TrimPrefix(err.Error(), ErrValidation.Error()+": ")
}
