package detections

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/pkg/handlers"
	"github.com/JaimeStill/iris/pkg/pagination"
	"github.com/JaimeStill/iris/pkg/routes"
)

var errPostOnly = errors.New("POST only")

// Handler provides HTTP endpoints for detection operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	basePath      string
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, upload size limit, and the API base path used to build Location headers.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	basePath string,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "detections"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		basePath:      strings.TrimSuffix(basePath, "/"),
	}
}

// Routes returns the route group definition for detection endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/detections",
		Tags:   []string{"Detections"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List, OpenAPI: Spec.List},
			{Method: "POST", Pattern: "", Handler: h.Upload, OpenAPI: Spec.Upload},
			{Method: "GET", Pattern: "/stats", Handler: h.Stats, OpenAPI: Spec.Stats},
			{Method: "POST", Pattern: "/snapshot", Handler: h.Snapshot, OpenAPI: Spec.Snapshot},
			{Method: "GET", Pattern: "/snapshot", Handler: h.postOnly},
			{Method: "PUT", Pattern: "/snapshot", Handler: h.postOnly},
			{Method: "PATCH", Pattern: "/snapshot", Handler: h.postOnly},
			{Method: "DELETE", Pattern: "/snapshot", Handler: h.postOnly},
			{Method: "GET", Pattern: "/{id}", Handler: h.View, OpenAPI: Spec.View},
			{Method: "GET", Pattern: "/{id}/report", Handler: h.Report, OpenAPI: Spec.Report},
			{Method: "POST", Pattern: "/{id}/report", Handler: h.Regenerate, OpenAPI: Spec.Regenerate},
		},
	}
}

// PatientRoutes returns the detection endpoints nested beneath patients.
func (h *Handler) PatientRoutes() routes.Group {
	return routes.Group{
		Prefix: "/patients",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/detections", Handler: h.ListByPatient, OpenAPI: Spec.ListByPatient},
		},
	}
}

// List returns a paginated detection history with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListByPatient returns a paginated list of one patient's detections.
func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.ListByPatient(r.Context(), r.PathValue("id"), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// View returns a detection prepared for display.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	v, err := h.sys.View(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, v)
}

// Stats returns dashboard statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sys.Stats(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

// Upload processes a multipart form containing an eye image and patient details.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.readImage(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	cmd := UploadCommand{
		Data:        data,
		ContentType: contentType,
		Patient: patients.GetOrCreateCommand{
			Name:   r.FormValue("name"),
			Age:    patients.ParseAge(r.FormValue("age")),
			Gender: patients.ParseGender(r.FormValue("gender")),
			Phone:  r.FormValue("phone"),
			Email:  r.FormValue("email"),
		},
	}

	d, err := h.sys.Upload(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	location := h.basePath + "/detections/" + d.ID
	w.Header().Set("Location", location)
	handlers.RespondJSON(w, http.StatusCreated, Created{ID: d.ID, Location: location})
}

// Snapshot classifies a webcam image without recording a detection.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.readImage(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	snap, err := h.sys.Snapshot(r.Context(), data, contentType)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, snap)
}

// Report downloads the detection's PDF report, regenerating it when absent.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondAttachment(w, report.Filename, "application/pdf", report.Data)
}

// Regenerate re-renders the detection's report and returns the updated detection.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	d, err := h.sys.Regenerate(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, d)
}

func (h *Handler) postOnly(w http.ResponseWriter, r *http.Request) {
	handlers.RespondError(w, h.logger, http.StatusMethodNotAllowed, errPostOnly)
}

// readImage extracts the "image" part of a multipart form.
func (h *Handler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", ErrFileTooLarge
		}
		return nil, "", ErrNoImage
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", ErrNoImage
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", ErrNoImage
	}
	if len(data) == 0 {
		return nil, "", ErrNoImage
	}

	return data, detectContentType(header.Header.Get("Content-Type"), data), nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
