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

// AdminHandler serves owner-only operations. The admin token in the path is
// the only credential.
type AdminHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{svc: polls.NewService(db), cfg: cfg}
}

// GetAdmin handles GET /admin/{token}
// Works in every lifecycle state, including soft-deleted and expired
func (h *AdminHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	poll, err := h.svc.GetPollByAdminToken(ctx, r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err, "admin lookup")
		return
	}

	h.writeAdminResults(w, r, poll)
}

// EditPoll handles PUT /admin/{token}
func (h *AdminHandler) EditPoll(w http.ResponseWriter, r *http.Request) {
	var req models.EditPollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ctx := r.Context()
	poll, err := h.svc.GetPollByAdminToken(ctx, r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err, "admin lookup")
		return
	}

	updated, err := h.svc.EditPoll(ctx, poll, polls.EditInputFromRequest(req))
	if err != nil {
		writeServiceError(w, err, "edit poll")
		return
	}

	h.writeAdminResults(w, r, updated)
}

// Action handles POST /admin/{token}/actions
func (h *AdminHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req models.AdminActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Action == "" {
		req.Action = models.ActionSoftDelete
	}

	ctx := r.Context()
	poll, err := h.svc.GetPollByAdminToken(ctx, r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err, "admin lookup")
		return
	}

	if err := h.svc.ApplyAction(ctx, &poll, req.Action); err != nil {
		writeServiceError(w, err, req.Action)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Action:  req.Action,
		Message: actionMessage(req.Action),
	})
}

func (h *AdminHandler) writeAdminResults(w http.ResponseWriter, r *http.Request, poll models.Poll) {
	results, err := h.svc.AdminResults(r.Context(), poll)
	if err != nil {
		writeServiceError(w, err, "admin results")
		return
	}
	results.VoteURL = voteURL(h.cfg, poll.Slug)

	middleware.JSONResponse(w, http.StatusOK, results)
}

func actionMessage(action string) string {
	switch action {
	case models.ActionHardDelete:
		return "Poll has been permanently deleted"
	case models.ActionRestore:
		return "Poll has been restored"
	default:
		return "Poll has been deleted. It will be permanently removed in 30 days unless restored"
	}
}
