// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/danielhkuo/dailyq/models"
)

// UpsertPushDestination registers a token, updating its platform on re-registration.
func (s *Store) UpsertPushDestination(ctx context.Context, d models.PushDestination) error {
	return s.call(ctx, "upsert_push_destination", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO push_destination (user_id, token, platform, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, token) DO UPDATE SET platform = EXCLUDED.platform
		`, d.UserID, d.Token, d.Platform, d.CreatedAt.UTC())
		return err
	})
}

// DeletePushDestination removes one token, or every token of the user when token is empty.
func (s *Store) DeletePushDestination(ctx context.Context, userID, token string) error {
	return s.call(ctx, "delete_push_destination", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			DELETE FROM push_destination WHERE user_id = $1 AND ($2 = '' OR token = $2)
		`, userID, token)
		return err
	})
}

func (s *Store) ListPushDestinations(ctx context.Context) ([]models.PushDestination, error) {
	var out []models.PushDestination
	err := s.call(ctx, "list_push_destinations", func(ctx context.Context) error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx, `
			SELECT user_id, token, platform, created_at FROM push_destination
			ORDER BY user_id, token
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var d models.PushDestination
			if err := rows.Scan(&d.UserID, &d.Token, &d.Platform, &d.CreatedAt); err != nil {
				return err
			}
			out = append(out, d)
		}
		return rows.Err()
	})
	return out, err
}
