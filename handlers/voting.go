// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/polls"
)

const (
	voteCookiePrefix = "poll_voted_"
	// Ten years
	voteCookieMaxAge = 10 * 365 * 24 * 60 * 60
)

type VotingHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: polls.NewService(db), cfg: cfg}
}

// Vote handles POST /polls/{slug}/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()
	poll, err := h.svc.GetActivePollBySlug(ctx, slug)
	if err != nil {
		writeServiceError(w, err, "vote lookup")
		return
	}

	who := requester(r, poll.ID)
	token, err := h.svc.SubmitBallot(ctx, poll, who.CookieToken, polls.Ballot{
		ChoiceIDs: req.ChoiceIDs,
		VoterName: req.VoterName,
		IP:        who.IP,
	})
	if err != nil {
		writeServiceError(w, err, "cast vote")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     VoteCookieName(poll.ID),
		Value:    token,
		Path:     "/",
		MaxAge:   voteCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Message: "Thank you for voting!",
	})
}

// VoteCookieName is the per-poll cookie holding the ballot token
func VoteCookieName(pollID string) string {
	return voteCookiePrefix + pollID
}

// requester collects the duplicate-vote signals from a request
func requester(r *http.Request, pollID string) polls.Requester {
	who := polls.Requester{IP: middleware.GetClientIP(r)}
	if c, err := r.Cookie(VoteCookieName(pollID)); err == nil {
		who.CookieToken = c.Value
	}
	return who
}
