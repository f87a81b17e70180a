package detections

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/internal/workflow"
)

// Domain errors for detection operations.
var (
	ErrNotFound          = errors.New("detection not found")
	ErrDuplicate         = errors.New("detection already exists")
	ErrNoImage           = errors.New("No image provided")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrReportUnavailable = errors.New("report not available")
)

// MapHTTPStatus maps detection domain errors to appropriate HTTP status codes.
// Image validation errors from the pipeline map to client errors.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrReportUnavailable) {
		return http.StatusNotFound
	}
	if errors.Is(err, patients.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoImage) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return workflow.MapHTTPStatus(err)
}
