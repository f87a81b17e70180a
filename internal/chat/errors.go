package chat

import (
	"errors"
	"net/http"
)

// Domain errors for chat operations.
var (
	ErrPostOnly     = errors.New("POST only")
	ErrInvalidJSON  = errors.New("Invalid JSON")
	ErrEmptyMessage = errors.New("Empty message")
	ErrDuplicate    = errors.New("chat message already exists")
	ErrNotFound     = errors.New("chat message not found")
)

// MapHTTPStatus maps chat domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrPostOnly):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
