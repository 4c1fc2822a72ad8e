// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the dailyq API.

# Route Registration

NewRouter builds the services over one store and returns a configured
http.ServeMux:

	mux := router.NewRouter(store, runner, cfg)

# Endpoints

Public:

	GET /health
	GET /metrics

Answers (X-User-Token):

	GET    /today               - Today's question and the caller's answer
	POST   /answers             - Answer today's question
	DELETE /answers/{id}        - Soft delete
	POST   /answers/{id}/restore
	GET    /me/answers          - Own history, deleted answers included
	GET    /users/{id}/answers  - Someone else's live answers

Feed and reactions (X-User-Token):

	GET    /timeline?date=&limit=
	PUT    /answers/{id}/reaction
	DELETE /answers/{id}/reaction

Profiles and graph (X-User-Token):

	PUT    /me
	GET    /users/{id}
	PUT    /users/{id}/follow    DELETE /users/{id}/follow
	PUT    /users/{id}/block     DELETE /users/{id}/block

Push destinations (X-User-Token):

	POST   /push-destinations
	DELETE /push-destinations
	DELETE /push-destinations/{token}

Moderation (X-Admin-Key):

	POST/GET /admin/questions
	POST/GET /admin/banned-terms    DELETE /admin/banned-terms/{term}
	POST     /admin/jobs/{select|publish}
*/
package router
