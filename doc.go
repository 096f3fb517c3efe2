// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollbox API server.

Pollbox is a small link-shared polling service. A poll is created with a
question and choices, voters get a slug URL, and the owner manages the poll
through a secret admin token. Polls expire, are soft-deleted, and are purged
30 days later by the retention sweeper.

# Starting the Server

By default DATABASE_URL is a SQLite file path:

	DATABASE_URL=pollbox.db go run .

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .

Settings may also live in a .env file in the working directory.

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): Connection string or SQLite path (required)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (--base-url): Prefix for vote and admin links
  - CLEANUP_SCHEDULE (--cleanup-schedule): Cron spec for the in-process
    sweep, or "off" (default: @every 60m)

The same sweep can run out of process with cmd/cleanup-polls.

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, client IP
  - polls: Poll service (creation, duplicate-vote guard, vote recorder, admin actions)
  - lifecycle: Pure poll state rules (expiry, retention, active)
  - sweeper: Retention sweep and its report
  - auth: Slug, admin token, and vote cookie generation
  - models: Request/response types
  - db: Connection and schema
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
