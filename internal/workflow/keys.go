package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/iris/pkg/imaging"
)

// UploadKey returns a date-partitioned storage key for an uploaded image,
// e.g. uploads/2026/03/14/<uuid>.png.
func UploadKey(at time.Time, contentType string) string {
	return fmt.Sprintf("uploads/%s/%s%s",
		at.Format("2006/01/02"),
		uuid.New().String(),
		imaging.Extension(contentType),
	)
}

// SnapshotKey returns the storage key for a webcam snapshot.
func SnapshotKey() string {
	return fmt.Sprintf("uploads/webcam_%s.jpg", strings.ReplaceAll(uuid.New().String(), "-", ""))
}
