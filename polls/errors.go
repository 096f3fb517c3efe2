// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound covers unknown slugs and tokens, and soft-deleted polls in
	// public lookups
	ErrNotFound = errors.New("poll not found")
	// ErrExpired means the poll exists but no longer accepts votes
	ErrExpired = errors.New("poll has expired")
	// ErrPollHasVotes refuses edits once voting has started
	ErrPollHasVotes = errors.New("cannot edit poll after votes have been cast")
	// ErrAlreadyVoted is returned when the duplicate-vote guard matches
	ErrAlreadyVoted = errors.New("already voted")
	// ErrValidation wraps every rejected submission
	ErrValidation = errors.New("validation failed")

	ErrTooFewChoices    = fmt.Errorf("%w: please provide at least 2 choices", ErrValidation)
	ErrNoChoiceSelected = fmt.Errorf("%w: please select at least one choice", ErrValidation)
	ErrUnknownAction    = fmt.Errorf("%w: unknown action", ErrValidation)

	errSlugExhausted = errors.New("could not find a free slug")
)

// validationError turns validator output into a single ErrValidation
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	fe := fieldErrs[0]
	field := fe.Field()
	if strings.HasPrefix(field, "choices[") {
		field = "choice text"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrValidation, field)
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", ErrValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", ErrValidation, field)
	}
}
