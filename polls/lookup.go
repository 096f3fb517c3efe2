// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/pollbox/auth"
	"github.com/danielhkuo/pollbox/lifecycle"
	"github.com/danielhkuo/pollbox/models"
)

// GetActivePollBySlug resolves a poll for voting. Soft-deleted polls are
// ErrNotFound; expired polls come back together with ErrExpired so the
// caller can still name them in its message.
func (s *Service) GetActivePollBySlug(ctx context.Context, slug string) (models.Poll, error) {
	poll, err := s.GetVisiblePollBySlug(ctx, slug)
	if err != nil {
		return poll, err
	}

	if lifecycle.IsExpired(poll, s.now()) {
		return poll, ErrExpired
	}
	return poll, nil
}

// GetVisiblePollBySlug resolves a poll for public display, hiding only
// soft-deleted polls
func (s *Service) GetVisiblePollBySlug(ctx context.Context, slug string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pollColumns+` FROM poll WHERE slug = $1 AND `+scopeNotDeleted,
		slug,
	)
	return fetchOne(row)
}

// GetPollByAdminToken resolves a poll for its owner, whatever its state
func (s *Service) GetPollByAdminToken(ctx context.Context, token string) (models.Poll, error) {
	if err := auth.ValidateAdminToken(token); err != nil {
		return models.Poll{}, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+pollColumns+` FROM poll WHERE admin_token = $1`,
		token,
	)
	return fetchOne(row)
}

// GetPollByID has no visibility filtering
func (s *Service) GetPollByID(ctx context.Context, id string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pollColumns+` FROM poll WHERE id = $1`,
		id,
	)
	return fetchOne(row)
}

func fetchOne(row *sql.Row) (models.Poll, error) {
	poll, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}
	return poll, nil
}

// ListChoices returns a poll's choices in creation order
func (s *Service) ListChoices(ctx context.Context, pollID string) ([]models.Choice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, choice_text, votes
		FROM choice
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	choices := []models.Choice{}
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.PollID, &c.Text, &c.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		choices = append(choices, c)
	}
	return choices, rows.Err()
}

// TotalVotes sums the choice counters of a poll
func (s *Service) TotalVotes(ctx context.Context, pollID string) (int, error) {
	return totalVotes(ctx, s.db, pollID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func totalVotes(ctx context.Context, q queryRower, pollID string) (int, error) {
	var total int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(votes), 0) FROM choice WHERE poll_id = $1`, pollID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return total, nil
}

// ListVoters returns who voted for what, newest first
func (s *Service) ListVoters(ctx context.Context, pollID string) ([]models.VoterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.voter_name, c.choice_text, v.voted_at
		FROM vote v
		JOIN choice c ON c.id = v.choice_id
		WHERE v.poll_id = $1
		ORDER BY v.voted_at DESC, v.id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voters: %w", err)
	}
	defer rows.Close()

	voters := []models.VoterEntry{}
	for rows.Next() {
		var v models.VoterEntry
		if err := rows.Scan(&v.VoterName, &v.Choice, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter: %w", err)
		}
		voters = append(voters, v)
	}
	return voters, rows.Err()
}
