// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
)

// Requester identifies whoever is about to vote
type Requester struct {
	// CookieToken is the ballot token from this poll's cookie, if any
	CookieToken string
	IP          string
}

// HasVoted is a best-effort duplicate check. The cookie is tried first
// since it survives IP changes; the IP catches cleared cookies, at the cost
// of blocking distinct people behind one shared address.
func (s *Service) HasVoted(ctx context.Context, pollID string, req Requester) (bool, error) {
	if req.CookieToken != "" {
		voted, err := s.voteExists(ctx,
			`SELECT EXISTS(SELECT 1 FROM vote WHERE poll_id = $1 AND cookie_token = $2)`,
			pollID, req.CookieToken,
		)
		if err != nil || voted {
			return voted, err
		}
	}

	return s.voteExists(ctx,
		`SELECT EXISTS(SELECT 1 FROM vote WHERE poll_id = $1 AND ip_address = $2)`,
		pollID, req.IP,
	)
}

func (s *Service) voteExists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing votes: %w", err)
	}
	return exists, nil
}
