// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections and schema creation.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "pollbox.db")

PostgreSQL uses lib/pq. SQLite uses modernc.org/sqlite with foreign keys
on, a busy timeout, and a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - poll: question, flags, slug, admin token, expires_at, deleted_at
  - choice: choice text and cached vote counter
  - vote: one row per chosen choice per ballot

# Relationships

	poll 1──* choice
	poll 1──* vote
	choice 1──* vote

All foreign keys use ON DELETE CASCADE.

# Constraint Errors

IsUniqueViolation recognizes unique-constraint failures from both drivers.
Poll creation uses it to retry on a slug collision.
*/
package db
