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

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	public := testutil.CreateTestPoll(t, db, testutil.TestPoll{PublicResults: true})
	a := testutil.AddTestChoice(t, db, public.ID, "A")
	b := testutil.AddTestChoice(t, db, public.ID, "B")
	testutil.AddTestVote(t, db, public.ID, a, "10.0.0.1", "t1")
	testutil.AddTestVote(t, db, public.ID, a, "10.0.0.2", "t2")
	testutil.AddTestVote(t, db, public.ID, b, "10.0.0.3", "t3")

	private := testutil.CreateTestPoll(t, db, testutil.TestPoll{PublicResults: false})
	testutil.AddTestChoice(t, db, private.ID, "A")

	expired := testutil.CreateTestPoll(t, db, testutil.TestPoll{
		PublicResults: true,
		ExpiresAt:     testutil.TimePtr(-24 * time.Hour),
	})
	testutil.AddTestChoice(t, db, expired.ID, "A")

	deleted := testutil.CreateTestPoll(t, db, testutil.TestPoll{
		PublicResults: true,
		DeletedAt:     testutil.TimePtr(-time.Hour),
	})

	tests := []struct {
		name           string
		slug           string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.Results)
	}{
		{
			name:           "public results",
			slug:           public.Slug,
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.Results) {
				if resp.TotalVotes != 3 {
					t.Errorf("Expected 3 votes, got %d", resp.TotalVotes)
				}
				if len(resp.Choices) != 2 {
					t.Fatalf("Expected 2 choices, got %d", len(resp.Choices))
				}
				if resp.Choices[0].Votes != 2 || resp.Choices[0].Percentage != 66.7 {
					t.Errorf("Unexpected first choice %+v", resp.Choices[0])
				}
				if resp.Choices[1].Percentage != 33.3 {
					t.Errorf("Unexpected second choice %+v", resp.Choices[1])
				}
			},
		},
		{
			name:           "private results",
			slug:           private.Slug,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "expired poll keeps results",
			slug:           expired.Slug,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "soft-deleted poll",
			slug:           deleted.Slug,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown slug",
			slug:           "nope",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/polls/"+tt.slug+"/results", nil, nil)
			req.SetPathValue("slug", tt.slug)
			w := httptest.NewRecorder()

			handler.GetResults(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var resp models.Results
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}
