// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"time"

	"github.com/danielhkuo/pollbox/lifecycle"
	"github.com/danielhkuo/pollbox/models"
)

// Stats is a snapshot of poll counts by lifecycle state
type Stats struct {
	Total        int
	Active       int
	SoftDeleted  int
	ExpiringSoon int
}

// ExpiredPendingDelete lists polls whose expiry has passed but which are not
// yet soft-deleted
func (s *Service) ExpiredPendingDelete(ctx context.Context, now time.Time) ([]models.Poll, error) {
	return s.queryPolls(ctx, scopeExpiredPending, timeArg(now))
}

// PastRetention lists soft-deleted polls whose retention period is over
func (s *Service) PastRetention(ctx context.Context, now time.Time) ([]models.Poll, error) {
	threshold := now.Add(-lifecycle.PermanentDeletionDelay)
	return s.queryPolls(ctx, scopeDeletedBefore, timeArg(threshold))
}

// Stats counts polls as of now
func (s *Service) Stats(ctx context.Context, now time.Time) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	at := timeArg(now)

	if stats.Total, err = s.countPolls(ctx, `1 = 1`); err != nil {
		return stats, err
	}
	if stats.Active, err = s.countPolls(ctx, scopeActive, at); err != nil {
		return stats, err
	}
	if stats.SoftDeleted, err = s.countPolls(ctx, scopeDeleted); err != nil {
		return stats, err
	}
	stats.ExpiringSoon, err = s.countPolls(ctx,
		scopeActive+` AND expires_at <= $2`,
		at, timeArg(now.Add(lifecycle.ExpiringSoonWindow)),
	)
	return stats, err
}
