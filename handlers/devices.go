// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
)

// DeviceHandler registers the push tokens the daily announcement is sent to.
type DeviceHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewDeviceHandler(s *store.Store, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{store: s, cfg: cfg}
}

// Register handles POST /push-destinations
// Registering the same token again only updates its platform
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterPushDestinationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	dest := models.PushDestination{
		UserID:    middleware.UserID(r.Context()),
		Token:     req.Token,
		Platform:  req.Platform,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.UpsertPushDestination(r.Context(), dest); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("push destination registered", "user_id", dest.UserID, "platform", dest.Platform)
	middleware.JSONResponse(w, http.StatusCreated, dest)
}

// Unregister handles DELETE /push-destinations/{token}
func (h *DeviceHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.store.DeletePushDestination(r.Context(), userID, r.PathValue("token")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnregisterAll handles DELETE /push-destinations
// Used on sign-out to stop every device of the caller
func (h *DeviceHandler) UnregisterAll(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.store.DeletePushDestination(r.Context(), userID, ""); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("push destinations cleared", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
