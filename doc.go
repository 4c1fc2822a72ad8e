// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the dailyq API server.

dailyq asks everyone the same question once a day. The question goes live at
a random time inside a daytime window, every device is notified, and answers
given within the on-time window after that are marked on time. Followers see
each other's answers in a timeline and can react to them.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	DATABASE_URL=postgres://... ADMIN_KEY=... USER_TOKEN_SALT=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d "file:dev.db" --admin-key dev --token-salt dev

# Configuration

Required settings:

  - DATABASE_URL (-d): database connection string
  - ADMIN_KEY (--admin-key): key for the /admin routes
  - USER_TOKEN_SALT (--token-salt): secret for user token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): postgres or sqlite (default: postgres)
  - HOME_ZONE (--zone): zone that defines calendar days (default: Asia/Tokyo)
  - PUBLISH_WINDOW_START / PUBLISH_WINDOW_END: daily window (default: 10:00-21:00)

See package cliparse for the full list.

# Architecture

  - scheduler: picks and publishes the daily question on cron schedules
  - notify: batched push fan-out through the push gateway
  - answers: submission pipeline with content filter and lateness
  - timeline: per-viewer feed assembly
  - reactions: one reaction per user per answer with a stored counter
  - store: all database access with per-call timeouts and bounded retries
  - handlers, router, middleware: the HTTP surface
  - models, errs, auth, db, metrics, cliparse: shared types and plumbing

On SIGINT or SIGTERM the scheduler stops taking new firings, running jobs
finish, and the HTTP server drains before exiting.
*/
package main
