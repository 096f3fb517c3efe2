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
	"github.com/danielhkuo/pollbox/models"
)

// Ballot is one vote submission
type Ballot struct {
	ChoiceIDs []string
	VoterName string
	IP        string
}

type voterFields struct {
	VoterName string `json:"voter_name" validate:"max=100"`
}

// CastVote records a ballot and returns its token for the duplicate-vote
// cookie. The caller must already have checked that the poll is active and
// that the requester has not voted.
//
// Single-choice polls only count the first selected choice. IDs that do not
// belong to the poll are skipped. Either every counted choice is recorded or
// nothing is.
func (s *Service) CastVote(ctx context.Context, poll models.Poll, ballot Ballot) (string, error) {
	choiceIDs := nonBlank(ballot.ChoiceIDs)
	if len(choiceIDs) == 0 {
		return "", ErrNoChoiceSelected
	}
	if poll.AllowMultipleChoices {
		choiceIDs = lo.Uniq(choiceIDs)
	} else {
		choiceIDs = choiceIDs[:1]
	}

	var voterName *string
	if !poll.IsAnonymous {
		fields := voterFields{VoterName: strings.TrimSpace(ballot.VoterName)}
		if err := s.validate.Struct(fields); err != nil {
			return "", validationError(err)
		}
		voterName = nullableString(fields.VoterName)
	}

	token, err := auth.GenerateBallotToken()
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	now := s.now()
	recorded := 0
	for _, choiceID := range choiceIDs {
		// The increment happens in the database so concurrent ballots for the
		// same choice cannot lose updates
		res, err := tx.ExecContext(ctx, `
			UPDATE choice SET votes = votes + 1
			WHERE id = $1 AND poll_id = $2
		`, choiceID, poll.ID)
		if err != nil {
			return "", fmt.Errorf("failed to count vote: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("failed to count vote: %w", err)
		}
		if n == 0 {
			slog.Debug("skipping choice not in poll", "poll_id", poll.ID, "choice_id", choiceID)
			continue
		}

		voteID, err := auth.GenerateID(16)
		if err != nil {
			return "", err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (id, poll_id, choice_id, voter_name, ip_address, cookie_token, voted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, voteID, poll.ID, choiceID, voterName, ballot.IP, token, now)
		if err != nil {
			return "", fmt.Errorf("failed to insert vote: %w", err)
		}
		recorded++
	}

	if recorded == 0 {
		return "", ErrNoChoiceSelected
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit ballot: %w", err)
	}

	slog.Info("ballot recorded", "poll_id", poll.ID, "choices", recorded)
	return token, nil
}

// SubmitBallot runs the duplicate-vote guard and then records the ballot.
// A requester the guard recognises gets ErrAlreadyVoted and nothing is written.
func (s *Service) SubmitBallot(ctx context.Context, poll models.Poll, cookieToken string, ballot Ballot) (string, error) {
	voted, err := s.HasVoted(ctx, poll.ID, Requester{CookieToken: cookieToken, IP: ballot.IP})
	if err != nil {
		return "", err
	}
	if voted {
		return "", ErrAlreadyVoted
	}
	return s.CastVote(ctx, poll, ballot)
}
