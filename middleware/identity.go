// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/dailyq/auth"
)

const (
	UserTokenHeader = "X-User-Token"
	AdminKeyHeader  = "X-Admin-Key"
)

type contextKey int

const userIDKey contextKey = iota

// RequireUser rejects requests without a valid user token and stores the
// verified user ID on the request context
func RequireUser(salt string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(UserTokenHeader)
		if token == "" {
			ErrorCodeResponse(w, http.StatusUnauthorized, "unauthenticated", UserTokenHeader+" header required")
			return
		}

		userID, err := auth.ValidateUserToken(token, salt)
		if err != nil {
			slog.Warn("rejected user token", "remote", GetClientIP(r))
			ErrorCodeResponse(w, http.StatusUnauthorized, "unauthenticated", "Invalid user token")
			return
		}

		next(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}

// RequireAdmin rejects requests whose admin key does not match
func RequireAdmin(adminKey string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.ValidateAdminKey(r.Header.Get(AdminKeyHeader), adminKey); err != nil {
			slog.Warn("rejected admin key", "remote", GetClientIP(r))
			ErrorCodeResponse(w, http.StatusForbidden, "forbidden", "Invalid admin key")
			return
		}
		next(w, r)
	}
}

// WithUserID returns a copy of ctx carrying the verified user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the verified user ID, or "" outside RequireUser
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
