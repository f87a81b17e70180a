package chat

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/iris/pkg/handlers"
	"github.com/JaimeStill/iris/pkg/routes"
)

// Handler provides HTTP endpoints for chat operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chat"),
	}
}

// Routes returns the route group definition for chat endpoints.
// The method-less root route gives non-POST calls a JSON 405.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chat",
		Tags:   []string{"Chat"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Chat, OpenAPI: Spec.Chat},
			{Pattern: "", Handler: h.Chat},
			{Method: "GET", Pattern: "/sessions/{session_id}", Handler: h.History, OpenAPI: Spec.History},
		},
	}
}

// Chat answers a JSON {message, language, session_id} body with {response, session_id}.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		handlers.RespondError(w, h.logger, http.StatusMethodNotAllowed, ErrPostOnly)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidJSON)
		return
	}

	reply, err := h.sys.Respond(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reply)
}

// History returns a session's messages in chronological order.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.sys.History(r.Context(), r.PathValue("session_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, messages)
}
