// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct for the server:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

ParseCleanupFlags returns a CleanupConfig for the cleanup-polls command:

	cfg, err := cliparse.ParseCleanupFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - BaseURL: Prefix for vote and admin links (default: http://localhost:<port>)
  - CleanupSchedule: Cron spec for the retention sweep (default: @every 60m, "off" disables)

# CLI Flags

	-p, --port              Server port
	-d, --database          Database URL
	-t, --database-type     sqlite or postgres
	    --base-url          Public base URL
	    --cleanup-schedule  Cron spec or "off"

The cleanup command only takes --dry-run and --force-expired.

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	BASE_URL         → --base-url
	CLEANUP_SCHEDULE → --cleanup-schedule

CLI flags take precedence over environment variables. LoadDotEnv fills
unset variables from a .env file before parsing.

# Example

	// In main.go
	if err := cliparse.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(conn, cfg)
*/
package cliparse
