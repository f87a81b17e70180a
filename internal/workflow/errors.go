// Package workflow runs the detection pipeline as a state graph:
// intake → classify → assess.
package workflow

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/iris/pkg/imaging"
)

// Sentinel errors for workflow operations.
var (
	ErrIntakeFailed   = errors.New("image intake failed")
	ErrClassifyFailed = errors.New("classification failed")
	ErrAssessFailed   = errors.New("content assessment failed")
)

// MapHTTPStatus maps workflow errors to HTTP status codes.
// Image validation failures surface as client errors.
func MapHTTPStatus(err error) int {
	if errors.Is(err, imaging.ErrInvalidImageType) || errors.Is(err, imaging.ErrCorruptImage) {
		return imaging.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
