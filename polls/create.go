// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/pollbox/auth"
	"github.com/danielhkuo/pollbox/db"
	"github.com/danielhkuo/pollbox/lifecycle"
	"github.com/danielhkuo/pollbox/models"
)

const (
	// slug draws per insert attempt before giving up on a free one
	maxSlugDraws = 5
	// insert attempts when a concurrent creator takes the slug first
	maxInsertAttempts = 3
)

// CreatePollInput is a poll creation request after form parsing
type CreatePollInput struct {
	Question             string
	Description          string
	Choices              []string
	IsAnonymous          bool
	PublicResults        bool
	AllowMultipleChoices bool
	Expiry               lifecycle.Expiry
}

// pollFields is validated on create and edit
type pollFields struct {
	Question    string   `json:"question" validate:"required,max=500"`
	Description string   `json:"description"`
	Choices     []string `json:"choices" validate:"dive,required,max=200"`
}

// CreateInputFromRequest maps the create payload onto the service input
func CreateInputFromRequest(req models.CreatePollRequest) CreatePollInput {
	return CreatePollInput{
		Question:             req.Question,
		Description:          req.Description,
		Choices:              req.Choices,
		IsAnonymous:          req.IsAnonymous,
		PublicResults:        req.PublicResults,
		AllowMultipleChoices: req.AllowMultipleChoices,
		Expiry:               lifecycle.ParseExpiry(req.ExpirationDays),
	}
}

// CreatePoll validates the input and stores the poll with its choices in
// one transaction
func (s *Service) CreatePoll(ctx context.Context, in CreatePollInput) (models.Poll, []models.Choice, error) {
	fields := pollFields{
		Question:    strings.TrimSpace(in.Question),
		Description: strings.TrimSpace(in.Description),
		Choices:     nonBlank(in.Choices),
	}
	if len(fields.Choices) < 2 {
		return models.Poll{}, nil, ErrTooFewChoices
	}
	if err := s.validate.Struct(fields); err != nil {
		return models.Poll{}, nil, validationError(err)
	}

	now := s.now()
	poll := models.Poll{
		Question:             fields.Question,
		Description:          nullableString(fields.Description),
		IsAnonymous:          in.IsAnonymous,
		PublicResults:        in.PublicResults,
		AllowMultipleChoices: in.AllowMultipleChoices,
		CreatedAt:            now,
		UpdatedAt:            now,
		ExpiresAt:            in.Expiry.Resolve(now),
	}
	if poll.ExpiresAt != nil {
		t := normalize(*poll.ExpiresAt)
		poll.ExpiresAt = &t
	}

	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		slug, err := s.freeSlug(ctx, poll.Question)
		if err != nil {
			return models.Poll{}, nil, err
		}

		id, err := auth.GenerateID(16)
		if err != nil {
			return models.Poll{}, nil, err
		}
		poll.ID = id
		poll.Slug = slug
		poll.AdminToken = auth.GenerateAdminToken()

		choices, err := s.insertPoll(ctx, poll, fields.Choices)
		if err == nil {
			slog.Info("poll created", "poll_id", poll.ID, "slug", poll.Slug, "choices", len(choices))
			return poll, choices, nil
		}
		if !db.IsUniqueViolation(err) {
			return models.Poll{}, nil, err
		}
		slog.Warn("slug collision on insert, retrying", "slug", slug, "attempt", attempt)
	}

	return models.Poll{}, nil, errSlugExhausted
}

// freeSlug draws slugs until one is not taken. The unique constraint still
// has the final say, since another creator may take it before the insert.
func (s *Service) freeSlug(ctx context.Context, question string) (string, error) {
	for i := 0; i < maxSlugDraws; i++ {
		slug, err := auth.GenerateSlug(question)
		if err != nil {
			return "", err
		}

		var taken bool
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM poll WHERE slug = $1)`, slug,
		).Scan(&taken)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
	}
	return "", errSlugExhausted
}

func (s *Service) insertPoll(ctx context.Context, poll models.Poll, texts []string) ([]models.Choice, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, description, slug, admin_token, is_anonymous,
			public_results, allow_multiple_choices, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, poll.ID, poll.Question, poll.Description, poll.Slug, poll.AdminToken, poll.IsAnonymous,
		poll.PublicResults, poll.AllowMultipleChoices, poll.CreatedAt, poll.UpdatedAt, poll.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert poll: %w", err)
	}

	choices := make([]models.Choice, 0, len(texts))
	for i, text := range texts {
		choice, err := insertChoice(ctx, tx, poll.ID, text, i)
		if err != nil {
			return nil, err
		}
		choices = append(choices, choice)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit poll: %w", err)
	}
	return choices, nil
}

func insertChoice(ctx context.Context, tx execer, pollID, text string, position int) (models.Choice, error) {
	id, err := auth.GenerateID(12)
	if err != nil {
		return models.Choice{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO choice (id, poll_id, choice_text, votes, position)
		VALUES ($1, $2, $3, 0, $4)
	`, id, pollID, text, position)
	if err != nil {
		return models.Choice{}, fmt.Errorf("failed to insert choice: %w", err)
	}

	return models.Choice{ID: id, PollID: pollID, Text: text}, nil
}

func nonBlank(values []string) []string {
	return lo.Compact(lo.Map(values, func(v string, _ int) string {
		return strings.TrimSpace(v)
	}))
}
