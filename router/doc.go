// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollbox API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health (pings the database):

	GET /health

Voting (public, uses the poll slug):

	POST /polls                - Create poll
	GET  /polls/{slug}         - Ballot and already_voted flag
	POST /polls/{slug}/vote    - Cast a vote
	GET  /polls/{slug}/results - Results (public_results only)

Owner (the admin token is the credential):

	GET  /admin/{token}         - Results, voters, lifecycle
	PUT  /admin/{token}         - Edit before the first vote
	POST /admin/{token}/actions - soft_delete, hard_delete, restore

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg)

Every API route is wrapped with middleware.WithLogging.
*/
package router
