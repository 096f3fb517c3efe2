// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/polls"
)

type PollHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{svc: polls.NewService(db), cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, _, err := h.svc.CreatePoll(r.Context(), polls.CreateInputFromRequest(req))
	if err != nil {
		writeServiceError(w, err, "create poll")
		return
	}

	// The admin token is only ever returned here
	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:     poll.ID,
		Slug:       poll.Slug,
		AdminToken: poll.AdminToken,
		VoteURL:    voteURL(h.cfg, poll.Slug),
		AdminURL:   adminURL(h.cfg, poll.AdminToken),
		ExpiresAt:  poll.ExpiresAt,
	})
}

// GetPoll handles GET /polls/{slug}
// Returns the ballot: poll, choices, and whether this requester already voted
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	ctx := r.Context()
	poll, err := h.svc.GetActivePollBySlug(ctx, slug)
	if errors.Is(err, polls.ErrExpired) {
		middleware.ErrorResponse(w, http.StatusGone, "The poll \""+poll.Question+"\" has expired")
		return
	}
	if err != nil {
		writeServiceError(w, err, "get poll")
		return
	}

	choices, err := h.svc.ListChoices(ctx, poll.ID)
	if err != nil {
		writeServiceError(w, err, "list choices")
		return
	}

	voted, err := h.svc.HasVoted(ctx, poll.ID, requester(r, poll.ID))
	if err != nil {
		writeServiceError(w, err, "check vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		Poll:         poll.Public(),
		Choices:      choices,
		AlreadyVoted: voted,
	})
}

func voteURL(cfg cliparse.Config, slug string) string {
	return cfg.BaseURL + "/polls/" + slug
}

func adminURL(cfg cliparse.Config, token string) string {
	return cfg.BaseURL + "/admin/" + token
}
