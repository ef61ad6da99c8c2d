package app

import (
	"errors"
	"fmt"

	"contesthub/pkg/csvexport"
	"contesthub/pkg/domain"
)

var (
	// ErrUnknownGroup is a validation failure: the chosen group does not exist.
	ErrUnknownGroup = fmt.Errorf("%w: unknown group", domain.ErrValidation)
	// ErrNotMember rejects applying on behalf of a group the user is not in.
	ErrNotMember = fmt.Errorf("%w: not a member of group", domain.ErrNotAuthorized)
)

// Notice turns an operation error into the message shown to the user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUserNotFound):
		return "No user found with this email. Please sign up."
	case errors.Is(err, domain.ErrNotAuthorized):
		return "Not allowed: " + err.Error()
	case errors.Is(err, domain.ErrValidation):
		return "Invalid input: " + err.Error()
	case errors.Is(err, domain.ErrNotEligible):
		return "Not eligible: " + err.Error()
	case errors.Is(err, csvexport.ErrEmptyInput):
		return "No data to export"
	default:
		return "Something went wrong: " + err.Error()
	}
}
