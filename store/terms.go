// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"time"
)

// BannedTerms loads the current term set. Callers load it per use; moderators
// may change it at any time.
func (s *Store) BannedTerms(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, "banned_terms", `SELECT term FROM banned_term ORDER BY term`)
}

func (s *Store) AddBannedTerm(ctx context.Context, term string, at time.Time) error {
	return s.call(ctx, "add_banned_term", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO banned_term (term, created_at) VALUES ($1, $2)
			ON CONFLICT (term) DO NOTHING
		`, normalizeTerm(term), at.UTC())
		return err
	})
}

func (s *Store) DeleteBannedTerm(ctx context.Context, term string) error {
	return s.call(ctx, "delete_banned_term", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM banned_term WHERE term = $1`, normalizeTerm(term))
		return err
	})
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
