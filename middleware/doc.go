// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /today", middleware.WithLogging(handler))

Logs one line per request (method, path, status, remote, duration_ms) and
records the latency in the dailyq_http_request_duration_seconds histogram,
labelled with the matched route pattern.

# Identity

User routes require the X-User-Token header, a user ID signed with the
server's token salt:

	mux.HandleFunc("POST /answers",
		middleware.WithLogging(middleware.RequireUser(cfg.UserTokenSalt, h.Submit)))

Handlers read the verified ID with middleware.UserID(r.Context()).
Admin routes use RequireAdmin and the X-Admin-Key header.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PUT, DELETE, OPTIONS with headers
Content-Type, X-User-Token, X-Admin-Key.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorCodeResponse(w, http.StatusConflict, "already_answered", "message")

DecodeAndValidate parses a request body and runs its validate struct tags
through go-playground/validator. Failures come back as errs.ErrValidation
with a message naming the JSON field.
*/
package middleware
