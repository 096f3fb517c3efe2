// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, description, choices, flags, expiration_days
  - VoteRequest: choice_ids, voter_name
  - EditPollRequest: question, description, choices (id + text), flags
  - AdminActionRequest: action

# Response Types

  - CreatePollResponse: poll_id, slug, admin_token, vote_url, admin_url
  - BallotResponse: public poll, choices, already_voted
  - VoteResponse: already_voted, message
  - Results / AdminResults: tallies with percentages, lifecycle info, voters
  - ErrorResponse: error, message

# Domain Types

  - Poll: poll metadata and lifecycle timestamps
  - Choice: choice text and its cached vote counter
  - Vote: immutable record of one choice in one ballot

Poll.AdminToken and the Vote IP and cookie token are never serialized.
PublicPoll is what voters see.

# Constants

Admin actions:

	ActionSoftDelete = "soft_delete"
	ActionHardDelete = "hard_delete"
	ActionRestore    = "restore"

Expiration selector:

	ExpirationNever = "never"
*/
package models
