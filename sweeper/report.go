// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/fatih/color"
)

var (
	notice  = color.New(color.FgCyan)
	warning = color.New(color.FgYellow)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed, color.Bold)
)

// Print writes a human-readable summary of the sweep
func (r Report) Print(w io.Writer) {
	notice.Fprintf(w, "Starting poll cleanup at %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	notice.Fprintf(w, "Dry run: %t\n", r.DryRun)
	fmt.Fprintln(w)

	if len(r.Expired) == 0 {
		success.Fprintln(w, "No expired polls found")
	} else {
		warning.Fprintf(w, "Found %s:\n", english.Plural(len(r.Expired), "expired poll", ""))
		for _, c := range r.Expired {
			fmt.Fprintf(w, "  - %q (expired %s)\n", c.Question, humanize.RelTime(*c.ExpiresAt, r.StartedAt, "ago", "from now"))
		}
		if r.ForceExpired {
			success.Fprintf(w, "  ✓ %s %s\n", r.verb("Permanently deleted"), english.Plural(r.ForceDeleted, "expired poll", ""))
		} else {
			success.Fprintf(w, "  ✓ %s %s\n", r.verb("Soft-deleted"), english.Plural(r.SoftDeleted, "expired poll", ""))
		}
	}
	fmt.Fprintln(w)

	if len(r.Purgeable) == 0 {
		success.Fprintln(w, "No old soft-deleted polls found")
	} else {
		warning.Fprintf(w, "Found %s ready for permanent deletion:\n", english.Plural(len(r.Purgeable), "soft-deleted poll", ""))
		for _, c := range r.Purgeable {
			fmt.Fprintf(w, "  - %q (deleted %s, %s, %s)\n",
				c.Question,
				humanize.RelTime(*c.DeletedAt, r.StartedAt, "ago", "from now"),
				english.Plural(c.Contents.Choices, "choice", ""),
				english.Plural(c.Contents.Votes, "vote", ""),
			)
		}
		success.Fprintf(w, "  ✓ %s %s\n", r.verb("Permanently deleted"), english.Plural(r.Purged, "poll", ""))
	}
	fmt.Fprintln(w)

	if r.ChoicesPurged > 0 || r.VotesPurged > 0 {
		notice.Fprintf(w, "%s %s and %s in total\n",
			r.verb("Removed"),
			english.Plural(r.ChoicesPurged, "choice", ""),
			english.Plural(r.VotesPurged, "vote record", ""),
		)
		fmt.Fprintln(w)
	}

	if len(r.Failures) > 0 {
		failure.Fprintf(w, "%s could not be processed:\n", english.Plural(len(r.Failures), "poll", ""))
		for _, f := range r.Failures {
			fmt.Fprintf(w, "  - %s (%s): %v\n", f.PollID, f.Action, f.Err)
		}
		fmt.Fprintln(w)
	}

	notice.Fprintln(w, "Database Statistics:")
	fmt.Fprintf(w, "  Total polls: %s\n", humanize.Comma(int64(r.Stats.Total)))
	fmt.Fprintf(w, "  Active polls: %s\n", humanize.Comma(int64(r.Stats.Active)))
	fmt.Fprintf(w, "  Soft-deleted polls: %s\n", humanize.Comma(int64(r.Stats.SoftDeleted)))
	if r.Stats.ExpiringSoon > 0 {
		warning.Fprintf(w, "  Polls expiring within 7 days: %s\n", humanize.Comma(int64(r.Stats.ExpiringSoon)))
	}
	fmt.Fprintln(w)

	success.Fprintln(w, "Cleanup complete!")
	if r.DryRun {
		notice.Fprintln(w, "(This was a dry run - no changes were made)")
	}
}

// verb turns a past-tense action into its dry-run form
func (r Report) verb(done string) string {
	if r.DryRun {
		return "Would have " + strings.ToLower(done[:1]) + done[1:]
	}
	return done
}
