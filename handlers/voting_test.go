// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/testutil"
)

func voteRequest(slug string, body interface{}, remoteAddr string, cookies ...*http.Cookie) *http.Request {
	req := testutil.MakeRequest("POST", "/polls/"+slug+"/vote", body, nil)
	req.SetPathValue("slug", slug)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	poll := testutil.CreateTestPoll(t, db, testutil.TestPoll{Question: "Named poll"})
	choiceA := testutil.AddTestChoice(t, db, poll.ID, "A")
	choiceB := testutil.AddTestChoice(t, db, poll.ID, "B")

	other := testutil.CreateTestPoll(t, db, testutil.TestPoll{})
	foreign := testutil.AddTestChoice(t, db, other.ID, "Elsewhere")

	expired := testutil.CreateTestPoll(t, db, testutil.TestPoll{ExpiresAt: testutil.TimePtr(-time.Minute)})
	expiredChoice := testutil.AddTestChoice(t, db, expired.ID, "Late")

	tests := []struct {
		name           string
		slug           string
		body           interface{}
		remoteAddr     string
		expectedStatus int
	}{
		{
			name:           "no choice selected",
			slug:           poll.Slug,
			body:           models.VoteRequest{ChoiceIDs: []string{}},
			remoteAddr:     "203.0.113.1:1000",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "only foreign choice",
			slug:           poll.Slug,
			body:           models.VoteRequest{ChoiceIDs: []string{foreign}},
			remoteAddr:     "203.0.113.2:1000",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "expired poll",
			slug:           expired.Slug,
			body:           models.VoteRequest{ChoiceIDs: []string{expiredChoice}},
			remoteAddr:     "203.0.113.3:1000",
			expectedStatus: http.StatusGone,
		},
		{
			name:           "unknown poll",
			slug:           "missing",
			body:           models.VoteRequest{ChoiceIDs: []string{choiceA}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid JSON",
			slug:           poll.Slug,
			body:           "oops",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "valid vote",
			slug:           poll.Slug,
			body:           models.VoteRequest{ChoiceIDs: []string{choiceB}, VoterName: "Alice"},
			remoteAddr:     "203.0.113.4:1000",
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Vote(w, voteRequest(tt.slug, tt.body, tt.remoteAddr))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	// Only the valid vote should have been recorded
	if n := testutil.CountRows(t, db, "vote", poll.ID); n != 1 {
		t.Errorf("Expected exactly 1 vote, got %d", n)
	}

	var name string
	if err := db.QueryRow(`SELECT voter_name FROM vote WHERE poll_id = $1`, poll.ID).Scan(&name); err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if name != "Alice" {
		t.Errorf("Expected voter name Alice, got %q", name)
	}
}

func TestVote_SetsCookieAndBlocksRepeat(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())

	poll := testutil.CreateTestPoll(t, db, testutil.TestPoll{})
	choice := testutil.AddTestChoice(t, db, poll.ID, "A")
	body := models.VoteRequest{ChoiceIDs: []string{choice}}

	w := httptest.NewRecorder()
	handler.Vote(w, voteRequest(poll.Slug, body, "203.0.113.10:1000"))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == VoteCookieName(poll.ID) {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Expected vote cookie to be set")
	}
	if len(cookie.Value) != 43 {
		t.Errorf("Expected 43 character ballot token, got %q", cookie.Value)
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Expected HttpOnly, SameSite=Lax cookie")
	}
	if cookie.MaxAge != 315360000 {
		t.Errorf("Expected ten year cookie, got MaxAge %d", cookie.MaxAge)
	}

	t.Run("same cookie from another IP", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Vote(w, voteRequest(poll.Slug, body, "203.0.113.11:1000", &http.Cookie{Name: cookie.Name, Value: cookie.Value}))
		testutil.AssertStatus(t, w, http.StatusConflict)

		var resp models.VoteResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.AlreadyVoted {
			t.Error("Expected already_voted in response")
		}
	})

	t.Run("same IP without cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Vote(w, voteRequest(poll.Slug, body, "203.0.113.10:2000"))
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("new requester", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Vote(w, voteRequest(poll.Slug, body, "203.0.113.12:1000"))
		testutil.AssertStatus(t, w, http.StatusCreated)
	})

	var votes int
	db.QueryRow(`SELECT votes FROM choice WHERE id = $1`, choice).Scan(&votes)
	if votes != 2 {
		t.Errorf("Expected counter at 2, got %d", votes)
	}
}

func TestVote_AnonymousPollDropsName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())

	poll := testutil.CreateTestPoll(t, db, testutil.TestPoll{IsAnonymous: true})
	choice := testutil.AddTestChoice(t, db, poll.ID, "A")

	w := httptest.NewRecorder()
	handler.Vote(w, voteRequest(poll.Slug, models.VoteRequest{
		ChoiceIDs: []string{choice},
		VoterName: "Mallory",
	}, ""))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var name *string
	if err := db.QueryRow(`SELECT voter_name FROM vote WHERE poll_id = $1`, poll.ID).Scan(&name); err != nil {
		t.Fatalf("Failed to read vote: %v", err)
	}
	if name != nil {
		t.Errorf("Expected NULL voter name, got %q", *name)
	}
}

func TestVote_MultipleChoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVotingHandler(db, testutil.GetTestConfig())

	single := testutil.CreateTestPoll(t, db, testutil.TestPoll{})
	s1 := testutil.AddTestChoice(t, db, single.ID, "A")
	s2 := testutil.AddTestChoice(t, db, single.ID, "B")

	multi := testutil.CreateTestPoll(t, db, testutil.TestPoll{AllowMultipleChoices: true})
	m1 := testutil.AddTestChoice(t, db, multi.ID, "A")
	m2 := testutil.AddTestChoice(t, db, multi.ID, "B")

	w := httptest.NewRecorder()
	handler.Vote(w, voteRequest(single.Slug, models.VoteRequest{ChoiceIDs: []string{s1, s2}}, ""))
	testutil.AssertStatus(t, w, http.StatusCreated)
	if n := testutil.CountRows(t, db, "vote", single.ID); n != 1 {
		t.Errorf("Single-choice poll recorded %d votes, expected 1", n)
	}

	w = httptest.NewRecorder()
	handler.Vote(w, voteRequest(multi.Slug, models.VoteRequest{ChoiceIDs: []string{m1, m2}}, ""))
	testutil.AssertStatus(t, w, http.StatusCreated)
	if n := testutil.CountRows(t, db, "vote", multi.ID); n != 2 {
		t.Errorf("Multi-choice poll recorded %d votes, expected 2", n)
	}

	var tokens int
	db.QueryRow(`SELECT COUNT(DISTINCT cookie_token) FROM vote WHERE poll_id = $1`, multi.ID).Scan(&tokens)
	if tokens != 1 {
		t.Errorf("Expected one ballot token shared by both rows, got %d", tokens)
	}
}
