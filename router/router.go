// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/dailyq/answers"
	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/handlers"
	"github.com/danielhkuo/dailyq/metrics"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/reactions"
	"github.com/danielhkuo/dailyq/scheduler"
	"github.com/danielhkuo/dailyq/store"
	"github.com/danielhkuo/dailyq/timeline"
)

func NewRouter(s *store.Store, runner *scheduler.Runner, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	answerHandler := handlers.NewAnswerHandler(answers.NewService(s, cfg), cfg)
	timelineHandler := handlers.NewTimelineHandler(timeline.NewAssembler(s, cfg), reactions.NewLedger(s))
	socialHandler := handlers.NewSocialHandler(s, cfg)
	deviceHandler := handlers.NewDeviceHandler(s, cfg)
	adminHandler := handlers.NewAdminHandler(s, runner, cfg)

	user := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(cfg.UserTokenSalt, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(cfg.AdminKey, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Daily question and answers
	mux.HandleFunc("GET /today", user(answerHandler.Today))
	mux.HandleFunc("POST /answers", user(answerHandler.Submit))
	mux.HandleFunc("DELETE /answers/{id}", user(answerHandler.Delete))
	mux.HandleFunc("POST /answers/{id}/restore", user(answerHandler.Restore))
	mux.HandleFunc("GET /me/answers", user(answerHandler.MyHistory))
	mux.HandleFunc("GET /users/{id}/answers", user(answerHandler.UserHistory))

	// Feed and reactions
	mux.HandleFunc("GET /timeline", user(timelineHandler.GetTimeline))
	mux.HandleFunc("PUT /answers/{id}/reaction", user(timelineHandler.AddReaction))
	mux.HandleFunc("DELETE /answers/{id}/reaction", user(timelineHandler.RemoveReaction))

	// Profiles and social graph
	mux.HandleFunc("PUT /me", user(socialHandler.UpdateMe))
	mux.HandleFunc("GET /users/{id}", user(socialHandler.GetProfile))
	mux.HandleFunc("PUT /users/{id}/follow", user(socialHandler.Follow))
	mux.HandleFunc("DELETE /users/{id}/follow", user(socialHandler.Unfollow))
	mux.HandleFunc("PUT /users/{id}/block", user(socialHandler.Block))
	mux.HandleFunc("DELETE /users/{id}/block", user(socialHandler.Unblock))

	// Push destinations
	mux.HandleFunc("POST /push-destinations", user(deviceHandler.Register))
	mux.HandleFunc("DELETE /push-destinations", user(deviceHandler.UnregisterAll))
	mux.HandleFunc("DELETE /push-destinations/{token}", user(deviceHandler.Unregister))

	// Moderation
	mux.HandleFunc("POST /admin/questions", admin(adminHandler.CreateQuestion))
	mux.HandleFunc("GET /admin/questions", admin(adminHandler.ListQuestions))
	mux.HandleFunc("POST /admin/banned-terms", admin(adminHandler.AddBannedTerm))
	mux.HandleFunc("GET /admin/banned-terms", admin(adminHandler.ListBannedTerms))
	mux.HandleFunc("DELETE /admin/banned-terms/{term}", admin(adminHandler.DeleteBannedTerm))
	mux.HandleFunc("POST /admin/jobs/{job}", admin(adminHandler.RunJob))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("dailyq API v1"))
	})

	return mux
}
