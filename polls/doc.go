// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls implements poll storage and voting over database/sql.

Service is the only code that reads or writes the poll, choice, and vote
tables. Handlers and the sweeper go through it:

	svc := polls.NewService(db)

# Lookups

Each lookup applies one named scope (queries.go):

  - GetActivePollBySlug: voting context; soft-deleted is ErrNotFound,
    expired is ErrExpired (the poll is still returned)
  - GetVisiblePollBySlug: results context; only soft-deleted is hidden
  - GetPollByAdminToken: owner context; never filtered

# Voting

SubmitBallot runs the duplicate-vote guard (HasVoted: cookie token first,
then IP) and then CastVote. CastVote records a ballot in one transaction:
each choice counter is incremented in SQL and a vote row is written per
counted choice. Choice IDs from other polls are skipped. If anything fails,
nothing is recorded.

# Owner Actions

  - SoftDelete, Restore: set or clear deleted_at
  - HardDelete: removes the poll with its choices and votes, returning counts
  - EditPoll: only while the poll has no votes, else ErrPollHasVotes

# Retention

ExpiredPendingDelete, PastRetention and Stats feed package sweeper.

# Errors

Callers match sentinels with errors.Is: ErrNotFound, ErrExpired,
ErrPollHasVotes, ErrAlreadyVoted, and ErrValidation (which wraps
ErrTooFewChoices, ErrNoChoiceSelected, ErrUnknownAction and field errors).
*/
package polls
