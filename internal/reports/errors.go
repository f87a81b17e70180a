// Package reports renders a detection into a paginated PDF screening report
// and stores it alongside the source image.
package reports

import "errors"

// Sentinel errors for report operations.
var (
	ErrRenderFailed = errors.New("report rendering failed")
	ErrStoreFailed  = errors.New("report storage failed")
)
