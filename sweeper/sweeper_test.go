// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/pollbox/polls"
	"github.com/danielhkuo/pollbox/testutil"
)

const day = 24 * time.Hour

type fixture struct {
	conn        *sql.DB
	svc         *polls.Service
	active      testutil.CreatedPoll
	expired     testutil.CreatedPoll
	recent      testutil.CreatedPoll
	old         testutil.CreatedPoll
	oldChoiceID string
}

// seed creates one poll in each lifecycle state, with two choices and a vote
// on the poll that is past retention
func seed(t *testing.T) fixture {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	f := fixture{
		conn: conn,
		svc:  polls.NewService(conn),
		active: testutil.CreateTestPoll(t, conn, testutil.TestPoll{
			Question:  "Still running",
			ExpiresAt: testutil.TimePtr(3 * day),
		}),
		expired: testutil.CreateTestPoll(t, conn, testutil.TestPoll{
			Question:  "Closed yesterday",
			ExpiresAt: testutil.TimePtr(-day),
		}),
		recent: testutil.CreateTestPoll(t, conn, testutil.TestPoll{
			Question:  "Deleted last week",
			DeletedAt: testutil.TimePtr(-5 * day),
		}),
		old: testutil.CreateTestPoll(t, conn, testutil.TestPoll{
			Question:  "Deleted last month",
			DeletedAt: testutil.TimePtr(-31 * day),
		}),
	}

	f.oldChoiceID = testutil.AddTestChoice(t, conn, f.old.ID, "Yes")
	testutil.AddTestChoice(t, conn, f.old.ID, "No")
	testutil.AddTestVote(t, conn, f.old.ID, f.oldChoiceID, "10.0.0.1", "token-1")

	return f
}

func TestRun(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	report, err := Run(ctx, f.svc, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Expired) != 1 || report.Expired[0].ID != f.expired.ID {
		t.Errorf("Expected the expired poll as the only candidate, got %+v", report.Expired)
	}
	if report.SoftDeleted != 1 || report.ForceDeleted != 0 {
		t.Errorf("Expected 1 soft delete, got %d soft and %d forced", report.SoftDeleted, report.ForceDeleted)
	}
	if report.Purged != 1 || report.ChoicesPurged != 2 || report.VotesPurged != 1 {
		t.Errorf("Unexpected purge counts: %d polls, %d choices, %d votes",
			report.Purged, report.ChoicesPurged, report.VotesPurged)
	}
	if len(report.Failures) != 0 {
		t.Errorf("Expected no failures, got %+v", report.Failures)
	}

	// 31 days deleted: gone with its contents
	for _, table := range []string{"poll", "choice", "vote"} {
		if n := testutil.CountRows(t, f.conn, table, f.old.ID); n != 0 {
			t.Errorf("Expected no %s rows for purged poll, got %d", table, n)
		}
	}

	// 5 days deleted: untouched
	if n := testutil.CountRows(t, f.conn, "poll", f.recent.ID); n != 1 {
		t.Error("Recently deleted poll should be retained")
	}

	expired, err := f.svc.GetPollByID(ctx, f.expired.ID)
	if err != nil {
		t.Fatalf("GetPollByID failed: %v", err)
	}
	if expired.DeletedAt == nil {
		t.Error("Expected expired poll to be soft deleted")
	}

	active, err := f.svc.GetPollByID(ctx, f.active.ID)
	if err != nil {
		t.Fatalf("GetPollByID failed: %v", err)
	}
	if active.DeletedAt != nil {
		t.Error("Active poll must not be touched")
	}

	expected := polls.Stats{Total: 3, Active: 1, SoftDeleted: 2, ExpiringSoon: 1}
	if report.Stats != expected {
		t.Errorf("Expected stats %+v, got %+v", expected, report.Stats)
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	first, err := Run(ctx, f.svc, Options{})
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.Transitions() != 2 {
		t.Errorf("Expected 2 transitions on first run, got %d", first.Transitions())
	}

	second, err := Run(ctx, f.svc, Options{})
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if second.Transitions() != 0 {
		t.Errorf("Expected no transitions on second run, got %d", second.Transitions())
	}
	if len(second.Expired) != 0 || len(second.Purgeable) != 0 {
		t.Errorf("Expected no candidates on second run, got %+v", second)
	}
}

func TestRun_DryRun(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	report, err := Run(ctx, f.svc, Options{DryRun: true, ForceExpired: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Transitions() != 0 {
		t.Errorf("Dry run must not transition anything, got %d", report.Transitions())
	}
	if len(report.Expired) != 1 || len(report.Purgeable) != 1 {
		t.Errorf("Expected 1 expired and 1 purgeable candidate, got %d and %d",
			len(report.Expired), len(report.Purgeable))
	}
	if c := report.Purgeable[0].Contents; c.Choices != 2 || c.Votes != 1 {
		t.Errorf("Expected dry run to preview contents, got %+v", c)
	}
	if report.ForceDeleted != 1 || report.Purged != 1 {
		t.Errorf("Expected 1 forced delete and 1 purge previewed, got %d and %d", report.ForceDeleted, report.Purged)
	}

	for _, id := range []string{f.expired.ID, f.old.ID} {
		if n := testutil.CountRows(t, f.conn, "poll", id); n != 1 {
			t.Errorf("Poll %s was removed by a dry run", id)
		}
	}
	expired, _ := f.svc.GetPollByID(ctx, f.expired.ID)
	if expired.DeletedAt != nil {
		t.Error("Dry run soft-deleted a poll")
	}

	expected := polls.Stats{Total: 4, Active: 1, SoftDeleted: 2, ExpiringSoon: 1}
	if report.Stats != expected {
		t.Errorf("Expected stats %+v, got %+v", expected, report.Stats)
	}
}

func TestRun_DryRunMatchesRealRun(t *testing.T) {
	for _, opts := range []Options{{}, {ForceExpired: true}} {
		name := "soft delete"
		if opts.ForceExpired {
			name = "force expired"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			dry := seed(t)
			testutil.AddTestChoice(t, dry.conn, dry.expired.ID, "Maybe")
			dryOpts := opts
			dryOpts.DryRun = true
			preview, err := Run(ctx, dry.svc, dryOpts)
			if err != nil {
				t.Fatalf("Dry run failed: %v", err)
			}

			live := seed(t)
			testutil.AddTestChoice(t, live.conn, live.expired.ID, "Maybe")
			done, err := Run(ctx, live.svc, opts)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			got := [5]int{preview.SoftDeleted, preview.ForceDeleted, preview.Purged, preview.ChoicesPurged, preview.VotesPurged}
			want := [5]int{done.SoftDeleted, done.ForceDeleted, done.Purged, done.ChoicesPurged, done.VotesPurged}
			if got != want {
				t.Errorf("Dry run totals %v differ from real run %v", got, want)
			}
			if preview.Transitions() != 0 {
				t.Errorf("Dry run reported %d transitions", preview.Transitions())
			}
			if done.Transitions() != 2 {
				t.Errorf("Expected 2 transitions, got %d", done.Transitions())
			}
		})
	}
}

func TestRun_ForceExpired(t *testing.T) {
	f := seed(t)
	ctx := context.Background()
	testutil.AddTestChoice(t, f.conn, f.expired.ID, "Maybe")

	report, err := Run(ctx, f.svc, Options{ForceExpired: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.ForceDeleted != 1 || report.SoftDeleted != 0 {
		t.Errorf("Expected 1 forced delete, got %d forced and %d soft", report.ForceDeleted, report.SoftDeleted)
	}
	if n := testutil.CountRows(t, f.conn, "poll", f.expired.ID); n != 0 {
		t.Error("Expected expired poll to be hard deleted")
	}
	if report.ChoicesPurged != 3 {
		t.Errorf("Expected 3 choices removed across both stages, got %d", report.ChoicesPurged)
	}
}

// failingStore fails hard deletes for one poll
type failingStore struct {
	*polls.Service
	failID string
}

func (s failingStore) HardDelete(ctx context.Context, pollID string) (polls.DeletionCounts, error) {
	if pollID == s.failID {
		return polls.DeletionCounts{}, errors.New("disk full")
	}
	return s.Service.HardDelete(ctx, pollID)
}

func TestRun_FailureIsolatedPerPoll(t *testing.T) {
	f := seed(t)
	ctx := context.Background()

	second := testutil.CreateTestPoll(t, f.conn, testutil.TestPoll{
		Question:  "Deleted long ago",
		DeletedAt: testutil.TimePtr(-60 * day),
	})

	report, err := Run(ctx, failingStore{Service: f.svc, failID: f.old.ID}, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Failures) != 1 || report.Failures[0].PollID != f.old.ID {
		t.Fatalf("Expected one failure for the old poll, got %+v", report.Failures)
	}
	if report.Purged != 1 {
		t.Errorf("Expected the other poll to be purged, got %d", report.Purged)
	}
	if n := testutil.CountRows(t, f.conn, "poll", second.ID); n != 0 {
		t.Error("Failure on one poll stopped the rest of the sweep")
	}
	if n := testutil.CountRows(t, f.conn, "vote", f.old.ID); n != 1 {
		t.Error("Failed poll lost votes")
	}
	if report.SoftDeleted != 1 {
		t.Errorf("Expected expired poll to still be soft deleted, got %d", report.SoftDeleted)
	}
}

func TestReportPrint(t *testing.T) {
	f := seed(t)

	report, err := Run(context.Background(), f.svc, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var buf bytes.Buffer
	report.Print(&buf)
	out := buf.String()

	for _, want := range []string{
		"Dry run: true",
		"expired poll",
		`"Closed yesterday"`,
		`"Deleted last month"`,
		"2 choices",
		"1 vote",
		"Would have soft-deleted 1 expired poll",
		"Would have permanently deleted 1 poll",
		"Would have removed 2 choices and 1 vote record in total",
		"Total polls: 4",
		"Polls expiring within 7 days: 1",
		"no changes were made",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q\n%s", want, out)
		}
	}
}
