package imaging

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidImageType indicates the declared content type is not an accepted image format.
	ErrInvalidImageType = errors.New("invalid image type: only JPEG, PNG, and WEBP are accepted")
	// ErrCorruptImage indicates the image bytes could not be decoded.
	ErrCorruptImage = errors.New("image could not be decoded")
)

// MapHTTPStatus maps imaging errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidImageType) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrCorruptImage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
