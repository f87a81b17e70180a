package api

import (
	"github.com/JaimeStill/iris/internal/config"
	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/infrastructure"
	"github.com/JaimeStill/iris/internal/workflow"
	"github.com/JaimeStill/iris/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// detection pipeline runtime.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Workflow   *workflow.Runtime
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	scoped := *infra
	scoped.Logger = logger

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Workflow: &workflow.Runtime{
			Classifier: infra.Classifier,
			Content:    content.New(infra.Generator, infra.Knowledge, logger),
			Storage:    infra.Storage,
			Logger:     logger,
		},
	}
}
