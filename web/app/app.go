// Package app serves the server-rendered iris pages: the upload form, the
// detection result view and the chat page.
package app

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/pkg/formatting"
	"github.com/JaimeStill/iris/pkg/module"
	"github.com/JaimeStill/iris/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app"

var (
	homeView     = web.ViewDef{Route: "/{$}", Template: "home.html", Title: "Eye Disease Detection"}
	resultsView  = web.ViewDef{Route: "/results/{id}", Template: "results.html", Title: "Detection Result"}
	chatView     = web.ViewDef{Route: "/chat", Template: "chat.html", Title: "Dr. EyeBot"}
	notFoundView = web.ViewDef{Template: "not_found.html", Title: "Not Found"}
)

var views = []web.ViewDef{homeView, resultsView, chatView, notFoundView}

// Config carries the paths the pages link against.
type Config struct {
	BasePath      string
	APIBasePath   string
	MaxUploadSize int64
}

// page is the data every view renders; Result is set only on the result view.
type page struct {
	API           string
	MaxUploadSize string
	Result        *detections.View
}

// NewModule creates the app module mounted at cfg.BasePath.
func NewModule(cfg Config, sys detections.System, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS, templateFS,
		"templates/layouts/*.html", "templates/views",
		cfg.BasePath, funcs(), views,
	)
	if err != nil {
		return nil, fmt.Errorf("parse app templates: %w", err)
	}
	ts.SetErrorStatus(detections.MapHTTPStatus)

	a := &app{
		cfg:    cfg,
		sys:    sys,
		logger: logger.With("module", "app"),
	}

	router := web.NewRouter()
	router.Handle("GET /static/", web.DistServer(staticFS, "static", "/static/"))
	router.HandleFunc("GET "+homeView.Route, ts.PageHandler(layout, homeView, a.page))
	router.HandleFunc("GET "+chatView.Route, ts.PageHandler(layout, chatView, a.page))
	router.HandleFunc("GET "+resultsView.Route, ts.PageHandler(layout, resultsView, a.result))
	router.SetFallback(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	return module.New(cfg.BasePath, router), nil
}

type app struct {
	cfg    Config
	sys    detections.System
	logger *slog.Logger
}

func (a *app) newPage() *page {
	return &page{
		API:           a.cfg.APIBasePath,
		MaxUploadSize: formatting.FormatBytes(a.cfg.MaxUploadSize, 0),
	}
}

func (a *app) page(r *http.Request) (any, error) {
	return a.newPage(), nil
}

func (a *app) result(r *http.Request) (any, error) {
	id := r.PathValue("id")
	v, err := a.sys.View(r.Context(), id)
	if err != nil {
		a.logger.Warn("result page unavailable", "id", id, "error", err)
		return nil, err
	}

	p := a.newPage()
	p.Result = v
	return p, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"percent": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		"date":    func(t time.Time) string { return t.Format("02 Jan 2006, 15:04") },
	}
}
