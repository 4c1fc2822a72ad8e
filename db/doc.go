// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")   // lib/pq
	conn, err := db.Open("sqlite", "file:dev.db")        // modernc.org/sqlite

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - app_user: public profile snippet
  - question: question bank with last_used_date
  - daily_question: one row per calendar day; published_at written once
  - answer: one per (date, user_id) and per (user_id, question_id)
  - reaction: one per (answer_id, reactor_id)
  - follow_edge, block_edge: directed adjacency lists, no self-edges
  - push_destination: push tokens per user
  - banned_term: moderator-managed terms

# Indexes

  - answer.user_id (history)
  - answer.date (feed scans)
  - question.last_used_date (selection)
  - follow_edge.followee_id, block_edge.blocked_id (reverse lookups)
*/
package db
