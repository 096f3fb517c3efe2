// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/pollbox/models"
)

const pollColumns = `id, question, description, slug, admin_token, is_anonymous,
	public_results, allow_multiple_choices, created_at, updated_at, expires_at, deleted_at`

// Scopes over the single poll table. Every lookup and sweep composes one of
// these, so the visibility rules live in one place. Where a scope needs the
// current time it is always $1.
const (
	scopeNotDeleted = `deleted_at IS NULL`
	scopeDeleted    = `deleted_at IS NOT NULL`
	// Matches lifecycle.IsActive
	scopeActive = `deleted_at IS NULL AND (expires_at IS NULL OR expires_at > $1)`
	// Expired but still live: next stop is soft deletion
	scopeExpiredPending = `deleted_at IS NULL AND expires_at IS NOT NULL AND expires_at <= $1`
	// Soft-deleted at or before $1
	scopeDeletedBefore = `deleted_at IS NOT NULL AND deleted_at <= $1`
)

type rowScanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func scanPoll(row rowScanner) (models.Poll, error) {
	var p models.Poll
	err := row.Scan(
		&p.ID, &p.Question, &p.Description, &p.Slug, &p.AdminToken,
		&p.IsAnonymous, &p.PublicResults, &p.AllowMultipleChoices,
		&p.CreatedAt, &p.UpdatedAt, &p.ExpiresAt, &p.DeletedAt,
	)
	return p, err
}

// queryPolls runs a SELECT of poll rows with the given WHERE clause
func (s *Service) queryPolls(ctx context.Context, where string, args ...any) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pollColumns+` FROM poll WHERE `+where+` ORDER BY created_at, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}
	return polls, nil
}

func (s *Service) countPolls(ctx context.Context, where string, args ...any) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poll WHERE `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count polls: %w", err)
	}
	return n, nil
}

// timeArg is how instants are passed to queries
func timeArg(t time.Time) time.Time {
	return normalize(t)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rollback is deferred after BeginTx; it is a no-op once committed
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
