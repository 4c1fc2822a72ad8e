// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/dailyq/auth"
	"github.com/danielhkuo/dailyq/cliparse"
	"github.com/danielhkuo/dailyq/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// Each call gets its own database, closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "file::memory:",
		DatabaseType:       "sqlite",
		LogLevel:           "debug",
		AdminKey:           "test-admin-key",
		UserTokenSalt:      "test-token-salt",
		HomeZone:           "UTC",
		Location:           time.UTC,
		PublishWindowStart: "10:00",
		PublishWindowEnd:   "21:00",
		SelectSchedule:     "0 0 * * *",
		CheckSchedule:      "*/10 * * * *",
		JobTimeout:         10 * time.Second,
		MaxAnswerLength:    200,
		OnTimeWindow:       30 * time.Minute,
		PushGatewayURL:     "http://127.0.0.1:0/push",
		PushBatchSize:      100,
		PushConcurrency:    2,
		PushTimeout:        time.Second,
		PushAttempts:       1,
		StoreTimeout:       5 * time.Second,
		StoreAttempts:      2,
	}
}

// UserHeaders returns the identity header for a user under the test config
func UserHeaders(cfg cliparse.Config, userID string) map[string]string {
	return map[string]string{"X-User-Token": auth.SignUserToken(userID, cfg.UserTokenSalt)}
}

// CreateTestUser inserts a profile and returns its ID
func CreateTestUser(t *testing.T, db *sql.DB, id, displayName string) string {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO app_user (id, display_name, created_at)
		VALUES ($1, $2, $3)
	`, id, displayName, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestQuestion adds a question bank entry and returns its ID.
// lastUsed may be empty for a never-used question.
func CreateTestQuestion(t *testing.T, db *sql.DB, text, lastUsed string) string {
	t.Helper()

	id, _ := auth.GenerateID(8)
	var lu sql.NullString
	if lastUsed != "" {
		lu = sql.NullString{String: lastUsed, Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO question (id, text, last_used_date, created_at)
		VALUES ($1, $2, $3, $4)
	`, id, text, lu, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return id
}

// CreateTestDailyQuestion schedules a question for a day; publishedAt nil leaves it unpublished
func CreateTestDailyQuestion(t *testing.T, db *sql.DB, date, questionID, publishTime string, publishedAt *time.Time) {
	t.Helper()

	var pa sql.NullTime
	if publishedAt != nil {
		pa = sql.NullTime{Time: publishedAt.UTC(), Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO daily_question (date, question_id, scheduled_publish_time, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, date, questionID, publishTime, pa, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test daily question: %v", err)
	}
}

// TestAnswer describes an answer row for CreateTestAnswer
type TestAnswer struct {
	UserID      string
	QuestionID  string
	Date        string
	Text        string
	IsOnTime    bool
	LateMinutes int
	IsDeleted   bool
	Reactions   int
	CreatedAt   time.Time
}

// CreateTestAnswer inserts an answer directly and returns its ID
func CreateTestAnswer(t *testing.T, db *sql.DB, a TestAnswer) string {
	t.Helper()

	id := uuid.NewString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Text == "" {
		a.Text = "answer from " + a.UserID
	}
	var deletedAt sql.NullTime
	if a.IsDeleted {
		deletedAt = sql.NullTime{Time: a.CreatedAt.UTC(), Valid: true}
	}

	_, err := db.Exec(`
		INSERT INTO answer (id, user_id, question_id, date, raw_text, rendered_text, is_flagged,
			is_on_time, late_minutes, is_deleted, deleted_at, reaction_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $5, FALSE, $6, $7, $8, $9, $10, $11)
	`, id, a.UserID, a.QuestionID, a.Date, a.Text, a.IsOnTime, a.LateMinutes,
		a.IsDeleted, deletedAt, a.Reactions, a.CreatedAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}
	return id
}

// CreateTestFollow inserts a follow edge
func CreateTestFollow(t *testing.T, db *sql.DB, followerID, followeeID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO follow_edge (follower_id, followee_id, created_at) VALUES ($1, $2, $3)
	`, followerID, followeeID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test follow: %v", err)
	}
}

// CreateTestBlock inserts a block edge without touching follows
func CreateTestBlock(t *testing.T, db *sql.DB, blockerID, blockedID string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO block_edge (blocker_id, blocked_id, created_at) VALUES ($1, $2, $3)
	`, blockerID, blockedID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test block: %v", err)
	}
}

// CreateTestPushDestination registers a push token
func CreateTestPushDestination(t *testing.T, db *sql.DB, userID, token, platform string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO push_destination (user_id, token, platform, created_at) VALUES ($1, $2, $3, $4)
	`, userID, token, platform, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test push destination: %v", err)
	}
}

// CreateTestBannedTerm adds a banned term
func CreateTestBannedTerm(t *testing.T, db *sql.DB, term string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO banned_term (term, created_at) VALUES ($1, $2)`, term, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test banned term: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
