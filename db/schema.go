// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// dbType is "postgres" or "sqlite".
func Open(dbType, url string) (*sql.DB, error) {
	driver := "postgres"
	if dbType == "sqlite" {
		driver = "sqlite"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// A single connection keeps in-memory databases shared and serializes writers.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// The schema sticks to SQL understood by both PostgreSQL and SQLite.
const schema = `
-- Users (public profile snippet)
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    avatar_url TEXT,
    created_at TIMESTAMP NOT NULL
);

-- Question bank
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    last_used_date TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_last_used ON question(last_used_date);

-- Daily questions (one per calendar day in the home zone)
CREATE TABLE IF NOT EXISTS daily_question (
    date TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id),
    scheduled_publish_time TEXT NOT NULL,
    published_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL
);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    question_id TEXT NOT NULL REFERENCES question(id),
    date TEXT NOT NULL,
    raw_text TEXT NOT NULL,
    rendered_text TEXT NOT NULL,
    is_flagged BOOLEAN NOT NULL DEFAULT FALSE,
    flag_reason TEXT,
    is_on_time BOOLEAN NOT NULL,
    late_minutes INTEGER NOT NULL DEFAULT 0 CHECK (late_minutes >= 0),
    is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
    deleted_at TIMESTAMP,
    reaction_count INTEGER NOT NULL DEFAULT 0 CHECK (reaction_count >= 0),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (date, user_id),
    UNIQUE (user_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_answer_user_id ON answer(user_id);
CREATE INDEX IF NOT EXISTS idx_answer_date ON answer(date);

-- Reactions
CREATE TABLE IF NOT EXISTS reaction (
    answer_id TEXT NOT NULL REFERENCES answer(id),
    reactor_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (answer_id, reactor_id)
);

-- Social graph
CREATE TABLE IF NOT EXISTS follow_edge (
    follower_id TEXT NOT NULL,
    followee_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (follower_id, followee_id),
    CHECK (follower_id <> followee_id)
);

CREATE INDEX IF NOT EXISTS idx_follow_edge_followee ON follow_edge(followee_id);

CREATE TABLE IF NOT EXISTS block_edge (
    blocker_id TEXT NOT NULL,
    blocked_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (blocker_id, blocked_id),
    CHECK (blocker_id <> blocked_id)
);

CREATE INDEX IF NOT EXISTS idx_block_edge_blocked ON block_edge(blocked_id);

-- Push destinations
CREATE TABLE IF NOT EXISTS push_destination (
    user_id TEXT NOT NULL,
    token TEXT NOT NULL,
    platform TEXT NOT NULL CHECK (platform IN ('ios', 'android', 'web')),
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (user_id, token)
);

-- Moderation
CREATE TABLE IF NOT EXISTS banned_term (
    term TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL
);
`
