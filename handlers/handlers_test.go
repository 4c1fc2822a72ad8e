// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/middleware"
	"github.com/danielhkuo/dailyq/models"
	"github.com/danielhkuo/dailyq/store"
	"github.com/danielhkuo/dailyq/testutil"
)

// env bundles a fresh database with the store and config the handlers share.
type env struct {
	db    *sql.DB
	store *store.Store
	cfg   cliparse.Config
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	return env{db: db, store: store.New(db, cfg.StoreTimeout, cfg.StoreAttempts), cfg: cfg}
}

// publishToday schedules a question for today (UTC in tests) that went live
// five minutes ago and returns its ID.
func (e env) publishToday(t *testing.T, text string) string {
	t.Helper()
	today := time.Now().UTC().Format(models.DateLayout)
	qid := testutil.CreateTestQuestion(t, e.db, text, today)
	published := time.Now().Add(-5 * time.Minute)
	testutil.CreateTestDailyQuestion(t, e.db, today, qid, "00:00", &published)
	return qid
}

// userRequest builds a request as if RequireUser had verified userID.
func userRequest(method, path string, body interface{}, userID string, pathValues ...string) *http.Request {
	req := testutil.MakeRequest(method, path, body, nil)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func decode(w *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(w.Body).Decode(v)
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	testutil.AssertStatus(t, w, status)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Code != code {
		t.Errorf("Expected code '%s', got '%s' (message: %s)", code, resp.Code, resp.Message)
	}
}

func TestWriteError_UnknownErrorIsGeneric(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, httptest.NewRequest("GET", "/", nil), errors.New("pq: connection refused on 10.0.0.5"))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Internal server error" {
		t.Errorf("Expected generic message, got '%s'", resp.Message)
	}
}

func TestParseLimit(t *testing.T) {
	testCases := []struct {
		query    string
		expected int
		wantErr  bool
	}{
		{"", 50, false},
		{"?limit=10", 10, false},
		{"?limit=500", 100, false},
		{"?limit=0", 0, true},
		{"?limit=abc", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			got, err := parseLimit(httptest.NewRequest("GET", "/timeline"+tc.query, nil), 50, 100)
			if tc.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}
