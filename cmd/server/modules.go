package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/iris/internal/api"
	"github.com/JaimeStill/iris/internal/config"
	"github.com/JaimeStill/iris/internal/infrastructure"
	"github.com/JaimeStill/iris/pkg/middleware"
	"github.com/JaimeStill/iris/pkg/module"
	"github.com/JaimeStill/iris/web/app"
	"github.com/JaimeStill/iris/web/scalar"
)

const appBasePath = "/app"

type Modules struct {
	API    *module.Module
	App    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)
	domain := api.NewDomain(runtime, cfg.Chat.HistoryWindow, cfg.Chat.ContextLimit)

	appModule, err := app.NewModule(
		app.Config{
			BasePath:      appBasePath,
			APIBasePath:   cfg.API.BasePath,
			MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		},
		domain.Detections,
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}
	appModule.Use(middleware.Recover(infra.Logger))
	appModule.Use(middleware.Logger(infra.Logger))

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	scalarModule := scalar.NewModule("/scalar", cfg.API.BasePath+"/openapi.json")
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		App:    appModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.App)
	router.Mount(m.Scalar)
	router.RedirectRoot(m.App.Prefix())
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
