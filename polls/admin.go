// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/danielhkuo/pollbox/lifecycle"
	"github.com/danielhkuo/pollbox/models"
)

// DeletionCounts describes what a hard delete removed
type DeletionCounts struct {
	Choices int
	Votes   int
}

// SoftDelete hides the poll from public lookups. Repeating it refreshes
// deleted_at, which restarts the retention period.
func (s *Service) SoftDelete(ctx context.Context, poll *models.Poll) error {
	now := s.now()
	lifecycle.SoftDelete(poll, now)
	poll.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`UPDATE poll SET deleted_at = $1, updated_at = $2 WHERE id = $3`,
		poll.DeletedAt, poll.UpdatedAt, poll.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to soft delete poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	slog.Info("poll soft deleted", "poll_id", poll.ID)
	return nil
}

// Restore brings back a soft-deleted poll. Expiry is untouched, so an
// expired poll stays closed to votes. Restoring a live poll does nothing.
func (s *Service) Restore(ctx context.Context, poll *models.Poll) error {
	if !lifecycle.IsSoftDeleted(*poll) {
		return nil
	}

	now := s.now()
	lifecycle.Restore(poll)
	poll.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`UPDATE poll SET deleted_at = NULL, updated_at = $1 WHERE id = $2`,
		poll.UpdatedAt, poll.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	slog.Info("poll restored", "poll_id", poll.ID)
	return nil
}

// HardDelete removes the poll, its choices and its votes in one transaction
func (s *Service) HardDelete(ctx context.Context, pollID string) (DeletionCounts, error) {
	var counts DeletionCounts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	// Explicit deletes keep this correct even where cascades are off
	res, err := tx.ExecContext(ctx, `DELETE FROM vote WHERE poll_id = $1`, pollID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete votes: %w", err)
	}
	votes, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM choice WHERE poll_id = $1`, pollID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete choices: %w", err)
	}
	choices, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return counts, fmt.Errorf("failed to delete poll: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return counts, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("failed to commit deletion: %w", err)
	}

	counts = DeletionCounts{Choices: int(choices), Votes: int(votes)}
	slog.Info("poll permanently deleted", "poll_id", pollID, "choices", counts.Choices, "votes", counts.Votes)
	return counts, nil
}

// CountContents reports what HardDelete would remove, without removing it
func (s *Service) CountContents(ctx context.Context, pollID string) (DeletionCounts, error) {
	var counts DeletionCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM choice WHERE poll_id = $1),
			(SELECT COUNT(*) FROM vote WHERE poll_id = $1)
	`, pollID).Scan(&counts.Choices, &counts.Votes)
	if err != nil {
		return counts, fmt.Errorf("failed to count poll contents: %w", err)
	}
	return counts, nil
}

// ApplyAction runs one owner action against the poll. An empty action is a
// soft delete.
func (s *Service) ApplyAction(ctx context.Context, poll *models.Poll, action string) error {
	switch action {
	case "", models.ActionSoftDelete:
		return s.SoftDelete(ctx, poll)
	case models.ActionRestore:
		return s.Restore(ctx, poll)
	case models.ActionHardDelete:
		_, err := s.HardDelete(ctx, poll.ID)
		return err
	default:
		return ErrUnknownAction
	}
}

// EditPollInput is an edit request after form parsing. Choices with an ID
// are renamed, choices without one are added, and existing choices left out
// are removed.
type EditPollInput struct {
	Question             string
	Description          string
	Choices              []models.EditChoice
	IsAnonymous          bool
	PublicResults        bool
	AllowMultipleChoices bool
}

func EditInputFromRequest(req models.EditPollRequest) EditPollInput {
	return EditPollInput{
		Question:             req.Question,
		Description:          req.Description,
		Choices:              req.Choices,
		IsAnonymous:          req.IsAnonymous,
		PublicResults:        req.PublicResults,
		AllowMultipleChoices: req.AllowMultipleChoices,
	}
}

// EditPoll changes a poll that has no votes yet. With votes it returns
// ErrPollHasVotes and changes nothing, whatever the payload.
func (s *Service) EditPoll(ctx context.Context, poll models.Poll, in EditPollInput) (models.Poll, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return poll, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	// Ballots increment these rows; holding them keeps new votes out until
	// the edit commits
	existing, err := choiceIDs(ctx, tx, poll.ID, s.rowLock)
	if err != nil {
		return poll, err
	}

	total, err := totalVotes(ctx, tx, poll.ID)
	if err != nil {
		return poll, err
	}
	if total > 0 {
		return poll, ErrPollHasVotes
	}

	edits := lo.FilterMap(in.Choices, func(c models.EditChoice, _ int) (models.EditChoice, bool) {
		c.ID = strings.TrimSpace(c.ID)
		c.Text = strings.TrimSpace(c.Text)
		return c, c.Text != ""
	})

	fields := pollFields{
		Question:    strings.TrimSpace(in.Question),
		Description: strings.TrimSpace(in.Description),
		Choices: lo.Map(edits, func(c models.EditChoice, _ int) string {
			return c.Text
		}),
	}
	if len(fields.Choices) < 2 {
		return poll, ErrTooFewChoices
	}
	if err := s.validate.Struct(fields); err != nil {
		return poll, validationError(err)
	}

	kept := make(map[string]bool, len(edits))
	position := 0
	for _, edit := range edits {
		switch {
		case edit.ID == "":
			choice, err := insertChoice(ctx, tx, poll.ID, edit.Text, position)
			if err != nil {
				return poll, err
			}
			kept[choice.ID] = true
		case lo.Contains(existing, edit.ID):
			_, err := tx.ExecContext(ctx, `
				UPDATE choice SET choice_text = $1, position = $2
				WHERE id = $3 AND poll_id = $4
			`, edit.Text, position, edit.ID, poll.ID)
			if err != nil {
				return poll, fmt.Errorf("failed to update choice: %w", err)
			}
			kept[edit.ID] = true
		default:
			// Belongs to another poll or no longer exists
			continue
		}
		position++
	}
	if len(kept) < 2 {
		return poll, ErrTooFewChoices
	}

	for _, id := range existing {
		if kept[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM choice WHERE id = $1`, id); err != nil {
			return poll, fmt.Errorf("failed to delete choice: %w", err)
		}
	}

	updated := poll
	updated.Question = fields.Question
	updated.Description = nullableString(fields.Description)
	updated.IsAnonymous = in.IsAnonymous
	updated.PublicResults = in.PublicResults
	updated.AllowMultipleChoices = in.AllowMultipleChoices
	updated.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx, `
		UPDATE poll
		SET question = $1, description = $2, is_anonymous = $3, public_results = $4,
			allow_multiple_choices = $5, updated_at = $6
		WHERE id = $7
	`, updated.Question, updated.Description, updated.IsAnonymous, updated.PublicResults,
		updated.AllowMultipleChoices, updated.UpdatedAt, updated.ID)
	if err != nil {
		return poll, fmt.Errorf("failed to update poll: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return poll, fmt.Errorf("failed to commit edit: %w", err)
	}

	slog.Info("poll edited", "poll_id", poll.ID, "choices", len(kept))
	return updated, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func choiceIDs(ctx context.Context, q querier, pollID, lock string) ([]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM choice WHERE poll_id = $1`+lock, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query choices: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan choice: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
