// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the dailyq API.

# Handler Types

Each handler is a struct holding the services it calls and the config:

  - AnswerHandler: today's question, submit, soft delete, restore, history
  - TimelineHandler: the per-viewer feed and reactions
  - SocialHandler: profiles, follows and blocks
  - DeviceHandler: push destination registration
  - AdminHandler: question bank, banned terms, manual job runs

Handlers are created via constructor functions:

	answerHandler := handlers.NewAnswerHandler(answers.NewService(s, cfg), cfg)

# Identity

User routes run behind middleware.RequireUser, which verifies X-User-Token
and stores the caller's ID in the request context:

	userID := middleware.UserID(r.Context())

Admin routes require the X-Admin-Key header.

# Answer Lifecycle

	POST   /answers              → Submit (today's published question only)
	DELETE /answers/{id}         → Delete (soft; owner only)
	POST   /answers/{id}/restore → Restore

A user holds at most one answer per question. Submitting again reports
already_answered, or deleted_exists when the earlier answer can be restored.

# Errors

Every failure goes through writeError, which maps domain errors from package
errs to a status and a machine code:

	{"error": "Forbidden", "message": "not the owner", "code": "not_owner"}

Errors with no mapping are logged and reported as a generic 500.
*/
package handlers
