// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/polls"
)

// Store is the part of polls.Service the sweeper needs
type Store interface {
	Now() time.Time
	ExpiredPendingDelete(ctx context.Context, now time.Time) ([]models.Poll, error)
	PastRetention(ctx context.Context, now time.Time) ([]models.Poll, error)
	SoftDelete(ctx context.Context, poll *models.Poll) error
	HardDelete(ctx context.Context, pollID string) (polls.DeletionCounts, error)
	CountContents(ctx context.Context, pollID string) (polls.DeletionCounts, error)
	Stats(ctx context.Context, now time.Time) (polls.Stats, error)
}

type Options struct {
	// DryRun computes the report without changing anything
	DryRun bool
	// ForceExpired hard-deletes expired polls instead of soft-deleting them
	ForceExpired bool
}

// Candidate is a poll the sweep acted on, or would have
type Candidate struct {
	ID        string
	Question  string
	ExpiresAt *time.Time
	DeletedAt *time.Time
	Contents  polls.DeletionCounts
}

// Failure is one poll the sweep could not process
type Failure struct {
	PollID string
	Action string
	Err    error
}

type Report struct {
	StartedAt    time.Time
	DryRun       bool
	ForceExpired bool

	// In a dry run the counters hold what a real run would have done
	Expired      []Candidate
	SoftDeleted  int
	ForceDeleted int

	Purgeable []Candidate
	Purged    int

	// Choices and votes removed by hard deletes, from either stage
	ChoicesPurged int
	VotesPurged   int

	Failures []Failure
	Stats    polls.Stats
}

// Run performs one sweep. Expired live polls are soft-deleted (or
// hard-deleted under ForceExpired) and polls soft-deleted more than 30 days
// ago are purged. A failure on one poll is logged and recorded in the report;
// the sweep carries on with the rest. Run only returns an error when it cannot
// list candidates or read statistics.
func Run(ctx context.Context, store Store, opts Options) (Report, error) {
	now := store.Now()
	report := Report{
		StartedAt:    now,
		DryRun:       opts.DryRun,
		ForceExpired: opts.ForceExpired,
	}

	expired, err := store.ExpiredPendingDelete(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to list expired polls: %w", err)
	}
	for i := range expired {
		poll := &expired[i]
		candidate := newCandidate(*poll)

		if opts.ForceExpired {
			counts, action, err := purge(ctx, store, poll.ID, opts.DryRun)
			if err != nil {
				report.fail(poll.ID, action, err)
				report.Expired = append(report.Expired, candidate)
				continue
			}
			candidate.Contents = counts
			report.ForceDeleted++
			report.ChoicesPurged += counts.Choices
			report.VotesPurged += counts.Votes
		} else {
			if !opts.DryRun {
				if err := store.SoftDelete(ctx, poll); err != nil {
					report.fail(poll.ID, models.ActionSoftDelete, err)
					report.Expired = append(report.Expired, candidate)
					continue
				}
			}
			report.SoftDeleted++
		}
		report.Expired = append(report.Expired, candidate)
	}

	purgeable, err := store.PastRetention(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to list polls past retention: %w", err)
	}
	for _, poll := range purgeable {
		candidate := newCandidate(poll)

		counts, action, err := purge(ctx, store, poll.ID, opts.DryRun)
		if err != nil {
			report.fail(poll.ID, action, err)
			report.Purgeable = append(report.Purgeable, candidate)
			continue
		}
		candidate.Contents = counts
		report.Purged++
		report.ChoicesPurged += counts.Choices
		report.VotesPurged += counts.Votes
		report.Purgeable = append(report.Purgeable, candidate)
	}

	report.Stats, err = store.Stats(ctx, now)
	if err != nil {
		return report, fmt.Errorf("failed to read poll statistics: %w", err)
	}

	slog.Info("sweep finished",
		"dry_run", opts.DryRun,
		"expired", len(report.Expired),
		"soft_deleted", report.SoftDeleted,
		"force_deleted", report.ForceDeleted,
		"purged", report.Purged,
		"failures", len(report.Failures),
	)
	return report, nil
}

// Transitions counts the state changes the sweep made. A dry run made none.
func (r Report) Transitions() int {
	if r.DryRun {
		return 0
	}
	return r.SoftDeleted + r.ForceDeleted + r.Purged
}

// purge hard-deletes a poll, or in a dry run only counts what would go
func purge(ctx context.Context, store Store, pollID string, dryRun bool) (polls.DeletionCounts, string, error) {
	if dryRun {
		counts, err := store.CountContents(ctx, pollID)
		return counts, "count", err
	}
	counts, err := store.HardDelete(ctx, pollID)
	return counts, models.ActionHardDelete, err
}

func (r *Report) fail(pollID, action string, err error) {
	slog.Error("sweep failed for poll", "poll_id", pollID, "action", action, "error", err)
	r.Failures = append(r.Failures, Failure{PollID: pollID, Action: action, Err: err})
}

func newCandidate(p models.Poll) Candidate {
	return Candidate{
		ID:        p.ID,
		Question:  p.Question,
		ExpiresAt: p.ExpiresAt,
		DeletedAt: p.DeletedAt,
	}
}
