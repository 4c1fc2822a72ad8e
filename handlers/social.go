// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
)

// SocialHandler manages profiles and the follow/block graph. A block hides a
// user exactly as if they did not exist.
type SocialHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewSocialHandler(s *store.Store, cfg cliparse.Config) *SocialHandler {
	return &SocialHandler{store: s, cfg: cfg}
}

// GetProfile handles GET /users/{id}
func (h *SocialHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.UserID(r.Context())
	targetID := r.PathValue("id")

	if viewerID != targetID {
		if err := h.hiddenByBlock(r, viewerID, targetID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	user, err := h.store.GetUser(r.Context(), targetID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	following := false
	if viewerID != targetID {
		following, err = h.store.IsFollowing(r.Context(), viewerID, targetID)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileResponse{
		Profile:     user.Snippet(),
		IsFollowing: following,
	})
}

// UpdateMe handles PUT /me
// Creates the caller's public profile on first use
func (h *SocialHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userID := middleware.UserID(r.Context())
	user := models.User{
		ID:          userID,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		CreatedAt:   time.Now(),
	}
	if err := h.store.UpsertUser(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("profile updated", "user_id", userID)
	middleware.JSONResponse(w, http.StatusOK, saved)
}

// Follow handles PUT /users/{id}/follow
func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, err := h.pair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.hiddenByBlock(r, viewerID, targetID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.Follow(r.Context(), viewerID, targetID, time.Now()); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RelationResponse{UserID: targetID, Following: true})
}

// Unfollow handles DELETE /users/{id}/follow
func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, err := h.pair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.Unfollow(r.Context(), viewerID, targetID); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RelationResponse{UserID: targetID})
}

// Block handles PUT /users/{id}/block
// Removes follows in both directions
func (h *SocialHandler) Block(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, err := h.pair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.Block(r.Context(), viewerID, targetID, time.Now()); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("user blocked", "blocker_id", viewerID, "blocked_id", targetID)
	middleware.JSONResponse(w, http.StatusOK, models.RelationResponse{UserID: targetID, Blocked: true})
}

// Unblock handles DELETE /users/{id}/block
func (h *SocialHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	viewerID, targetID, err := h.pair(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.Unblock(r.Context(), viewerID, targetID); err != nil {
		writeError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.RelationResponse{UserID: targetID})
}

func (h *SocialHandler) pair(r *http.Request) (viewerID, targetID string, err error) {
	viewerID = middleware.UserID(r.Context())
	targetID = r.PathValue("id")
	if viewerID == targetID {
		return "", "", errs.ErrSelfRelation
	}
	return viewerID, targetID, nil
}

func (h *SocialHandler) hiddenByBlock(r *http.Request, viewerID, targetID string) error {
	blocked, err := h.store.IsBlockedEither(r.Context(), viewerID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return errs.ErrNotFound
	}
	return nil
}
