package api

import (
	"net/http"

	"github.com/JaimeStill/iris/internal/classifier"
	"github.com/JaimeStill/iris/internal/generative"
	"github.com/JaimeStill/iris/pkg/capability"
	"github.com/JaimeStill/iris/pkg/handlers"
	"github.com/JaimeStill/iris/pkg/lifecycle"
	"github.com/JaimeStill/iris/pkg/openapi"
	"github.com/JaimeStill/iris/pkg/routes"
)

// Status reports which capabilities are live.
type Status struct {
	Version    string           `json:"version"`
	Classifier classifier.Mode  `json:"classifier"`
	Generative capability.State `json:"generative"`
	Ready      bool             `json:"ready"`
	Systems    map[string]bool  `json:"systems"`
}

type statusHandler struct {
	classifier classifier.Classifier
	generative generative.Generator
	lifecycle  *lifecycle.Coordinator
	version    string
}

func newStatusHandler(runtime *Runtime, version string) *statusHandler {
	return &statusHandler{
		classifier: runtime.Classifier,
		generative: runtime.Generator,
		lifecycle:  runtime.Lifecycle,
		version:    version,
	}
}

func (h *statusHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/status",
		Tags:   []string{"Status"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.status, OpenAPI: &openapi.Operation{
				Summary:     "Capability status",
				Description: "Reports the classifier mode and whether generative text is available.",
				Responses: map[int]*openapi.Response{
					200: {Description: "Version, classifier mode, generative state and readiness"},
				},
			}},
		},
	}
}

func (h *statusHandler) status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Status{
		Version:    h.version,
		Classifier: h.classifier.Mode(),
		Generative: h.generative.State(),
		Ready:      h.lifecycle.Ready(),
		Systems:    h.lifecycle.Status(),
	})
}
