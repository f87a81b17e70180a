package workflow

import (
	"log/slog"

	"github.com/JaimeStill/iris/internal/classifier"
	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/pkg/storage"
)

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Classifier classifier.Classifier
	Content    content.Assembler
	Storage    storage.System
	Logger     *slog.Logger
}
