package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrBackendUnreachable indicates the recommendation backend did not answer
	ErrBackendUnreachable = errors.New("backend is unreachable")

	// ErrUnauthorized indicates the session token was rejected
	ErrUnauthorized = errors.New("session token is invalid")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidUserID indicates a login attempt with a malformed user id
	ErrInvalidUserID = errors.New("user id must be a non-negative integer")

	// ErrInvalidRating indicates a rating outside the 1-10 dataset scale
	ErrInvalidRating = errors.New("rating must be between 1 and 10")
)
