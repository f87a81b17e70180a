package detections

import (
	"context"

	"github.com/JaimeStill/iris/internal/reports"
	"github.com/JaimeStill/iris/pkg/pagination"
)

// System defines the public contract for detection domain operations.
type System interface {
	Handler(maxUploadSize int64, basePath string) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Detection], error)

	// ListByPatient lists a patient's detections, newest first.
	// Returns patients.ErrNotFound when the patient does not exist.
	ListByPatient(
		ctx context.Context,
		patientID string,
		page pagination.PageRequest,
	) (*pagination.PageResult[Detection], error)

	Find(ctx context.Context, id string) (*Detection, error)
	View(ctx context.Context, id string) (*View, error)

	// Upload runs the full pipeline for cmd, records the detection against
	// the named patient, and attempts to render its report. Report failure
	// leaves ReportKey nil and does not fail the upload.
	Upload(ctx context.Context, cmd UploadCommand) (*Detection, error)

	// Snapshot classifies a webcam image without recording a detection.
	Snapshot(ctx context.Context, data []byte, contentType string) (*Snapshot, error)

	// Report returns the stored report, regenerating it when absent.
	Report(ctx context.Context, id string) (*Report, error)

	// Regenerate renders and stores the report unconditionally.
	Regenerate(ctx context.Context, id string) (*Detection, error)

	Stats(ctx context.Context) (*Stats, error)
}

// Renderer renders and stores detection reports.
type Renderer interface {
	Render(ctx context.Context, doc reports.Document) reports.Outcome
}
