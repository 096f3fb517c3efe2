// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/pollbox/auth"
	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/db"
)

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pollbox-test.db")
	conn, err := db.Open(db.TypeSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "pollbox-test.db",
		DatabaseType:    db.TypeSQLite,
		BaseURL:         "http://localhost:3318",
		CleanupSchedule: cliparse.ScheduleOff,
	}
}

// TestPoll describes a poll row for CreateTestPoll
type TestPoll struct {
	Question             string
	IsAnonymous          bool
	PublicResults        bool
	AllowMultipleChoices bool
	CreatedAt            time.Time
	ExpiresAt            *time.Time
	DeletedAt            *time.Time
}

// CreatedPoll holds the identifiers of a poll made by CreateTestPoll
type CreatedPoll struct {
	ID         string
	Slug       string
	AdminToken string
}

// CreateTestPoll inserts a poll row directly, bypassing validation and
// defaults, so tests can place it anywhere in its lifecycle
func CreateTestPoll(t *testing.T, conn *sql.DB, p TestPoll) CreatedPoll {
	t.Helper()

	if p.Question == "" {
		p.Question = "Test Poll"
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	pollID, _ := auth.GenerateID(16)
	slug, _ := auth.GenerateSlug(p.Question)
	created := CreatedPoll{
		ID:         pollID,
		Slug:       slug,
		AdminToken: auth.GenerateAdminToken(),
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, question, slug, admin_token, is_anonymous, public_results,
			allow_multiple_choices, created_at, updated_at, expires_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, created.ID, p.Question, created.Slug, created.AdminToken, p.IsAnonymous, p.PublicResults,
		p.AllowMultipleChoices, utc(p.CreatedAt), utc(p.CreatedAt), utcPtr(p.ExpiresAt), utcPtr(p.DeletedAt))
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return created
}

// AddTestChoice adds a choice to a poll and returns the choice ID
func AddTestChoice(t *testing.T, conn *sql.DB, pollID, text string) string {
	t.Helper()

	choiceID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO choice (id, poll_id, choice_text, votes, position)
		VALUES ($1, $2, $3, 0, (SELECT COUNT(*) FROM choice WHERE poll_id = $2))
	`, choiceID, pollID, text)
	if err != nil {
		t.Fatalf("Failed to create test choice: %v", err)
	}

	return choiceID
}

// AddTestVote records a vote the way a ballot would: one vote row plus the
// counter increment
func AddTestVote(t *testing.T, conn *sql.DB, pollID, choiceID, ip, cookieToken string) {
	t.Helper()

	voteID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO vote (id, poll_id, choice_id, ip_address, cookie_token, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, pollID, choiceID, ip, cookieToken, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	_, err = conn.Exec(`UPDATE choice SET votes = votes + 1 WHERE id = $1`, choiceID)
	if err != nil {
		t.Fatalf("Failed to update test choice counter: %v", err)
	}
}

// CountRows counts rows in table matching poll_id (or id for the poll table)
func CountRows(t *testing.T, conn *sql.DB, table, pollID string) int {
	t.Helper()

	column := "poll_id"
	if table == "poll" {
		column = "id"
	}

	var n int
	err := conn.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE "+column+" = $1", pollID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}

// TimePtr returns a pointer to now shifted by d
func TimePtr(d time.Duration) *time.Time {
	t := time.Now().UTC().Add(d)
	return &t
}

func utc(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := utc(*t)
	return &u
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
