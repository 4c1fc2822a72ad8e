// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/scheduler"
	"github.com/danielhkuo/dailyq/store"
	"github.com/danielhkuo/dailyq/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, cliparse.Config) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	s := store.New(db, cfg.StoreTimeout, cfg.StoreAttempts)
	window, err := scheduler.ParseWindow(cfg.PublishWindowStart, cfg.PublishWindowEnd)
	if err != nil {
		t.Fatalf("Failed to parse window: %v", err)
	}
	runner, err := scheduler.NewRunner(scheduler.NewJobs(s, nil, cfg.Location, window, nil), cfg.SelectSchedule, cfg.CheckSchedule, cfg.JobTimeout)
	if err != nil {
		t.Fatalf("Failed to create runner: %v", err)
	}
	return NewRouter(s, runner, cfg), cfg
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "dailyq API v1" {
		t.Errorf("Expected body 'dailyq API v1', got '%s'", w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/no-such-route", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("Expected Prometheus exposition format")
	}
}

func TestUserRoutesRequireToken(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/today"},
		{"POST", "/answers"},
		{"DELETE", "/answers/a1"},
		{"POST", "/answers/a1/restore"},
		{"GET", "/me/answers"},
		{"GET", "/users/u1/answers"},
		{"GET", "/timeline"},
		{"PUT", "/answers/a1/reaction"},
		{"DELETE", "/answers/a1/reaction"},
		{"PUT", "/me"},
		{"GET", "/users/u1"},
		{"PUT", "/users/u1/follow"},
		{"DELETE", "/users/u1/follow"},
		{"PUT", "/users/u1/block"},
		{"DELETE", "/users/u1/block"},
		{"POST", "/push-destinations"},
		{"DELETE", "/push-destinations"},
		{"DELETE", "/push-destinations/tok"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d", w.Code)
			}
		})
	}
}

func TestAdminRoutesRequireKey(t *testing.T) {
	mux, cfg := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/admin/questions"},
		{"GET", "/admin/questions"},
		{"POST", "/admin/banned-terms"},
		{"GET", "/admin/banned-terms"},
		{"DELETE", "/admin/banned-terms/spam"},
		{"POST", "/admin/jobs/select"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			if w.Code != http.StatusForbidden {
				t.Errorf("Expected 403 without admin key, got %d", w.Code)
			}

			// A user token is not an admin key.
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range testutil.UserHeaders(cfg, "u1") {
				req.Header.Set(k, v)
			}
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			if w.Code != http.StatusForbidden {
				t.Errorf("Expected 403 with user token, got %d", w.Code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"POST", "/today"},
		{"PATCH", "/answers/a1"},
		{"GET", "/answers/a1/reaction"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux, cfg := newTestRouter(t)

	// Following yourself is rejected only once {id} reaches the handler.
	req := httptest.NewRequest("PUT", "/users/u1/follow", nil)
	for k, v := range testutil.UserHeaders(cfg, "u1") {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for self follow, got %d. Body: %s", w.Code, w.Body.String())
	}
}
