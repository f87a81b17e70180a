package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/iris/internal/chat"
	"github.com/JaimeStill/iris/internal/config"
	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/pkg/openapi"
	"github.com/JaimeStill/iris/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	detectionsHandler := domain.Detections.Handler(cfg.API.MaxUploadSizeBytes(), cfg.API.BasePath)

	groups := []routes.Group{
		domain.Patients.Handler().Routes(),
		detectionsHandler.Routes(),
		detectionsHandler.PatientRoutes(),
		domain.Chat.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
		newStatusHandler(runtime, cfg.Version).routes(),
	}
	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))
	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	spec.AddTag("Detections", "Image upload, screening results and reports")
	spec.AddTag("Patients", "Screened patients")
	spec.AddTag("Chat", "Dr. EyeBot eye-health assistant")
	spec.AddTag("Storage", "Stored images and reports")
	spec.AddTag("Status", "Capability and readiness")

	spec.Components.AddSchemas(patients.Schemas())
	spec.Components.AddSchemas(detections.Schemas())
	spec.Components.AddSchemas(chat.Schemas())

	routes.Describe(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}
	return data, nil
}
