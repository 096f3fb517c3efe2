// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollbox API.

# Handler Types

Each handler is a struct over a polls.Service and the server config:

  - PollHandler: Poll creation and the public ballot
  - VotingHandler: Ballot submission and the duplicate-vote cookie
  - ResultsHandler: Public results
  - AdminHandler: Owner view, edits, and lifecycle actions

Handlers are created via constructor functions that accept *sql.DB and Config:

	pollHandler := handlers.NewPollHandler(db, cfg)

# Voting Flow

Voters only ever see the slug:

	GET  /polls/{slug}         → GetPoll (ballot + already_voted)
	POST /polls/{slug}/vote    → Vote (sets poll_voted_<id> cookie)
	GET  /polls/{slug}/results → GetResults (403 unless results are public)

Expired polls answer 410 to the ballot and vote routes. Soft-deleted polls
are 404 everywhere except the admin routes.

# Owner Flow

The admin token returned by POST /polls is the owner's only credential:

	GET  /admin/{token}         → GetAdmin (results, voters, lifecycle)
	PUT  /admin/{token}         → EditPoll (403 once votes exist)
	POST /admin/{token}/actions → Action (soft_delete, hard_delete, restore)

# Errors

Service errors map to statuses in one place (writeServiceError):
not found 404, expired 410, edit locked 403, already voted 409,
validation 400, anything else 500.
*/
package handlers
