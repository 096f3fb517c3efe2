// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle holds the time rules of a poll, with no storage involved.

# States

A poll is in exactly one of:

  - active: not soft-deleted, and expires_at is unset or in the future
  - expired: expires_at <= now, not yet soft-deleted
  - soft-deleted: deleted_at is set; hidden from voters, kept for the owner
  - purged: hard-deleted 30 days after deleted_at (see package sweeper)

Expiry is checked against now on every call, so there is no stored status.
A poll expiring exactly at now is already expired.

# Countdowns

DaysUntilExpiration and DaysUntilPermanentDeletion return whole days,
truncated toward zero and never below 0. They return nil when the poll
never expires, or is not soft-deleted.

# Expiry Selection

Creation takes an Expiry option instead of a nullable timestamp, so "not
chosen" and "never" stay distinct:

	lifecycle.ParseExpiry("")      // 90 days from now
	lifecycle.ParseExpiry("7")     // 7 days from now
	lifecycle.ParseExpiry("never") // no expiry

	expiresAt := expiry.Resolve(now)
*/
package lifecycle
