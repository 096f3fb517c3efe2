// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package sweeper enforces the time-based poll lifecycle in batch.

One sweep does two passes over the poll table:

  - expired polls that are still live get soft-deleted, or hard-deleted
    when ForceExpired is set
  - polls soft-deleted more than 30 days ago are purged together with their
    choices and votes

Every candidate is re-read from current timestamps, so running the sweep
again right away changes nothing. The server schedules Run with cron; the
cleanup-polls command runs it once and prints the Report.

	report, err := sweeper.Run(ctx, svc, sweeper.Options{DryRun: true})
	report.Print(os.Stdout)
*/
package sweeper
