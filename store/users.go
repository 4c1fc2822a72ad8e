// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/lo"

	"github.com/danielhkuo/dailyq/errs"
	"github.com/danielhkuo/dailyq/models"
)

// UpsertUser creates the profile or updates its public fields.
func (s *Store) UpsertUser(ctx context.Context, u models.User) error {
	return s.call(ctx, "upsert_user", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO app_user (id, display_name, avatar_url, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				display_name = EXCLUDED.display_name,
				avatar_url = EXCLUDED.avatar_url
		`, u.ID, u.DisplayName, nullString(u.AvatarURL), u.CreatedAt.UTC())
		return err
	})
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.call(ctx, "get_user", func(ctx context.Context) error {
		var avatar sql.NullString
		err := s.db.QueryRowContext(ctx, `
			SELECT id, display_name, avatar_url, created_at FROM app_user WHERE id = $1
		`, id).Scan(&u.ID, &u.DisplayName, &avatar, &u.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		u.AvatarURL = stringPtr(avatar)
		return err
	})
	return u, err
}

// GetUsers loads profiles by ID. Unknown IDs are absent from the result.
func (s *Store) GetUsers(ctx context.Context, ids []string) (map[string]models.User, error) {
	ids = lo.Uniq(ids)
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	args := lo.Map(ids, func(id string, _ int) any { return id })
	err := s.call(ctx, "get_users", func(ctx context.Context) error {
		clear(out)
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, display_name, avatar_url, created_at FROM app_user
			WHERE id IN (`+placeholders(1, len(ids))+`)
		`, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.User
			var avatar sql.NullString
			if err := rows.Scan(&u.ID, &u.DisplayName, &avatar, &u.CreatedAt); err != nil {
				return err
			}
			u.AvatarURL = stringPtr(avatar)
			out[u.ID] = u
		}
		return rows.Err()
	})
	return out, err
}
