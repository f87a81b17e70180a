package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/iris/pkg/handlers"
	"github.com/JaimeStill/iris/pkg/openapi"
	"github.com/JaimeStill/iris/pkg/routes"
	"github.com/JaimeStill/iris/pkg/storage"
)

type storageHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newStorageHandler(store storage.System, logger *slog.Logger) *storageHandler {
	return &storageHandler{
		store:  store,
		logger: logger.With("handler", "storage"),
	}
}

func (h *storageHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/storage",
		Tags:   []string{"Storage"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.serve, OpenAPI: &openapi.Operation{
				Summary:    "Serve a stored image or report",
				Parameters: []*openapi.Parameter{openapi.PathParam("key", "Storage key, e.g. reports/report_DT1A2B3C4D.pdf")},
				Responses: map[int]*openapi.Response{
					200: {Description: "Stored bytes with their content type"},
					404: openapi.ResponseRef("NotFound"),
				},
			}},
		},
	}
}

// serve streams a stored image or report inline.
func (h *storageHandler) serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	blob, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, blob.Body)
}
