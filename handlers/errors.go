// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/pollbox/middleware"
	"github.com/danielhkuo/pollbox/models"
	"github.com/danielhkuo/pollbox/polls"
)

// writeServiceError maps a polls.Service error to its HTTP response. Anything
// unrecognized is logged and answered with a generic 500.
func writeServiceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, polls.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, polls.ErrExpired):
		middleware.ErrorResponse(w, http.StatusGone, "This poll has expired")
	case errors.Is(err, polls.ErrPollHasVotes):
		middleware.ErrorResponse(w, http.StatusForbidden, "Cannot edit poll after votes have been cast")
	case errors.Is(err, polls.ErrAlreadyVoted):
		middleware.JSONResponse(w, http.StatusConflict, models.VoteResponse{
			AlreadyVoted: true,
			Message:      "You have already voted in this poll",
		})
	case errors.Is(err, polls.ErrValidation):
		middleware.ErrorResponse(w, http.StatusBadRequest, validationMessage(err))
	default:
		slog.Error("request failed", "op", op, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}

// validationMessage strips the sentinel prefix and capitalizes the rest
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), polls.ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
