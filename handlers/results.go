// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollbox/cliparse"
	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/polls"
)

type ResultsHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: polls.NewService(db), cfg: cfg}
}

// GetResults handles GET /polls/{slug}/results
// Results stay readable after expiry, but only when the owner made them public
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	ctx := r.Context()
	poll, err := h.svc.GetVisiblePollBySlug(ctx, slug)
	if err != nil {
		writeServiceError(w, err, "results lookup")
		return
	}

	if !poll.PublicResults {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results for this poll are private")
		return
	}

	results, err := h.svc.Results(ctx, poll)
	if err != nil {
		writeServiceError(w, err, "results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
