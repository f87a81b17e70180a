// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, classifier,
// generative text, knowledge base, report renderer) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/iris/internal/classifier"
	"github.com/JaimeStill/iris/internal/config"
	"github.com/JaimeStill/iris/internal/generative"
	"github.com/JaimeStill/iris/internal/knowledge"
	"github.com/JaimeStill/iris/internal/reports"
	"github.com/JaimeStill/iris/pkg/database"
	"github.com/JaimeStill/iris/pkg/lifecycle"
	"github.com/JaimeStill/iris/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Classifier and Generator are always non-nil; when their backing model or
// provider is absent they run in demo or unavailable mode.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	Classifier classifier.Classifier
	Generator  generative.Generator
	Knowledge  *knowledge.Base
	Reports    *reports.Renderer
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	kb, err := knowledge.Load()
	if err != nil {
		return nil, fmt.Errorf("knowledge base init failed: %w", err)
	}

	c := classifier.Load(
		classifier.OnnxConfig{
			ModelPath:   cfg.Classifier.ModelPath,
			RuntimePath: cfg.Classifier.RuntimePath,
			InputName:   cfg.Classifier.InputName,
			OutputName:  cfg.Classifier.OutputName,
		},
		classifier.NewDirichletSampler(nil),
		logger,
	)

	renderer := reports.New(
		reports.Options{
			FontPath:   cfg.Report.FontPath,
			ModelLabel: cfg.Report.ModelLabel,
			Disclaimer: kb.ReportDisclaimer,
			Location:   cfg.Report.Location(),
		},
		store,
		logger,
	)

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Classifier: c,
		Generator:  generative.New(cfg.Agent, logger),
		Knowledge:  kb,
		Reports:    renderer,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination;
// the classifier is closed on shutdown.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if err := i.Classifier.Close(); err != nil {
			i.Logger.Error("classifier close failed", "error", err)
		}
	})
	return nil
}
