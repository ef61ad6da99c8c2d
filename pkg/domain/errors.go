package domain

import "errors"

var (
	// ErrValidation indicates a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotAuthorized indicates the acting user may not perform the operation.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUserNotFound is returned by Login when no stored user matches.
	// Callers usually respond by offering sign-up.
	ErrUserNotFound = errors.New("no matching user")

	ErrNotEligible = errors.New("group not eligible for event")
)
