package api

import (
	"fmt"
	"net/http"

	"github.com/rsawada/aniterm/internal/domain"
)

// Error is a structured non-2xx response from the backend. It carries the
// HTTP status plus the message the backend put in its {error} or {message}
// payload. Transport-level failures are reported as domain.ErrBackendUnreachable
// instead, so callers can tell the two apart with errors.As / errors.Is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can
// match with errors.Is without knowing HTTP codes.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// errorBody is the uniform error payload shape. The backend uses {error} on
// most routes and {message} on a few; either field may be present.
type errorBody struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Err != "" {
		return b.Err
	}
	return b.Message
}
