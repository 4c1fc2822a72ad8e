// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"time"
)

// Follow is idempotent: following twice keeps one edge.
func (s *Store) Follow(ctx context.Context, followerID, followeeID string, at time.Time) error {
	return s.call(ctx, "follow", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO follow_edge (follower_id, followee_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (follower_id, followee_id) DO NOTHING
		`, followerID, followeeID, at.UTC())
		return err
	})
}

func (s *Store) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.call(ctx, "unfollow", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM follow_edge WHERE follower_id = $1 AND followee_id = $2
		`, followerID, followeeID)
		return err
	})
}

// Block records the edge and removes follow edges between the two users in
// both directions, atomically.
func (s *Store) Block(ctx context.Context, blockerID, blockedID string, at time.Time) error {
	return s.tx(ctx, "block", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO block_edge (blocker_id, blocked_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (blocker_id, blocked_id) DO NOTHING
		`, blockerID, blockedID, at.UTC()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			DELETE FROM follow_edge
			WHERE (follower_id = $1 AND followee_id = $2)
			   OR (follower_id = $2 AND followee_id = $1)
		`, blockerID, blockedID)
		return err
	})
}

func (s *Store) Unblock(ctx context.Context, blockerID, blockedID string) error {
	return s.call(ctx, "unblock", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM block_edge WHERE blocker_id = $1 AND blocked_id = $2
		`, blockerID, blockedID)
		return err
	})
}

// Followees returns the users the given user follows.
func (s *Store) Followees(ctx context.Context, userID string) ([]string, error) {
	return s.queryStrings(ctx, "followees", `
		SELECT followee_id FROM follow_edge WHERE follower_id = $1 ORDER BY followee_id
	`, userID)
}

// BlockedEither returns every user with a block edge to or from the given user.
func (s *Store) BlockedEither(ctx context.Context, userID string) ([]string, error) {
	return s.queryStrings(ctx, "blocked_either", `
		SELECT blocked_id FROM block_edge WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM block_edge WHERE blocked_id = $1
	`, userID)
}

// IsBlockedEither reports whether a block edge exists between a and b in either direction.
func (s *Store) IsBlockedEither(ctx context.Context, a, b string) (bool, error) {
	var blocked bool
	err := s.call(ctx, "is_blocked_either", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM block_edge
				WHERE (blocker_id = $1 AND blocked_id = $2)
				   OR (blocker_id = $2 AND blocked_id = $1)
			)
		`, a, b).Scan(&blocked)
	})
	return blocked, err
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var following bool
	err := s.call(ctx, "is_following", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM follow_edge WHERE follower_id = $1 AND followee_id = $2
			)
		`, followerID, followeeID).Scan(&following)
	})
	return following, err
}
