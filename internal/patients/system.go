package patients

import (
	"context"

	"github.com/JaimeStill/iris/pkg/pagination"
)

// System defines the public contract for patient domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Patient], error)

	Find(ctx context.Context, id string) (*Patient, error)
	Count(ctx context.Context) (int, error)

	// GetOrCreate returns the earliest patient with cmd.Name, creating one
	// when none exists. An existing patient with age zero is backfilled from
	// a nonzero cmd.Age. created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, cmd GetOrCreateCommand) (p *Patient, created bool, err error)

	// Delete removes the patient and, by cascade, its detections. Stored
	// images and reports of those detections are removed best-effort.
	Delete(ctx context.Context, id string) error
}
