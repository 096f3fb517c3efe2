// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"math"

	"github.com/samber/lo"

	"github.com/danielhkuo/pollbox/lifecycle"
	"github.com/danielhkuo/pollbox/models"
)

// Results tallies a poll from its choice counters
func (s *Service) Results(ctx context.Context, poll models.Poll) (models.Results, error) {
	choices, err := s.ListChoices(ctx, poll.ID)
	if err != nil {
		return models.Results{}, err
	}

	total := lo.SumBy(choices, func(c models.Choice) int { return c.Votes })
	results := lo.Map(choices, func(c models.Choice, _ int) models.ChoiceResult {
		return models.ChoiceResult{
			ChoiceID:   c.ID,
			Text:       c.Text,
			Votes:      c.Votes,
			Percentage: percentage(c.Votes, total),
		}
	})

	return models.Results{
		Poll:       poll.Public(),
		Choices:    results,
		TotalVotes: total,
	}, nil
}

// AdminResults adds the owner-only details: lifecycle state, whether the
// poll can still be edited, and the voter list for named polls
func (s *Service) AdminResults(ctx context.Context, poll models.Poll) (models.AdminResults, error) {
	results, err := s.Results(ctx, poll)
	if err != nil {
		return models.AdminResults{}, err
	}

	admin := models.AdminResults{
		Results:   results,
		DeletedAt: poll.DeletedAt,
		CreatedAt: poll.CreatedAt,
		Lifecycle: lifecycle.Info(poll, s.now()),
		Editable:  results.TotalVotes == 0,
	}

	if !poll.IsAnonymous {
		voters, err := s.ListVoters(ctx, poll.ID)
		if err != nil {
			return models.AdminResults{}, err
		}
		admin.Voters = voters
	}

	return admin, nil
}

// percentage rounds to one decimal place
func percentage(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*1000) / 10
}
