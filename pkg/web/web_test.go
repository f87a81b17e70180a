package web_test

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/JaimeStill/iris/pkg/web"
)

var errMissing = errors.New("detection not found")

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/app.html":  {Data: []byte(`{{ define "app" }}<title>{{ .Title }}</title>{{ block "content" . }}{{ end }}{{ end }}`)},
		"views/home.html":   {Data: []byte(`{{ define "content" }}home {{ .BasePath }}{{ end }}`)},
		"views/result.html": {Data: []byte(`{{ define "content" }}{{ if .Error }}error: {{ .Error }}{{ else }}{{ upper .Data }}{{ end }}{{ end }}`)},
		"static/app.css":    {Data: []byte("body{}")},
	}
}

func newSet(t *testing.T) *web.TemplateSet {
	t.Helper()
	fsys := testFS()
	views := []web.ViewDef{
		{Route: "/{$}", Template: "home.html", Title: "Home"},
		{Route: "/results/{id}", Template: "result.html", Title: "Result"},
	}
	funcs := template.FuncMap{"upper": strings.ToUpper}

	ts, err := web.NewTemplateSet(fsys, fsys, "layouts/*.html", "views", "/app", funcs, views)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestPageHandler(t *testing.T) {
	ts := newSet(t)
	view := web.ViewDef{Template: "home.html", Title: "Home"}

	rec := httptest.NewRecorder()
	ts.PageHandler("app", view, nil)(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<title>Home</title>") || !strings.Contains(body, "home /app") {
		t.Errorf("unexpected body: %s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type = %s", ct)
	}
}

func TestPageHandlerLoader(t *testing.T) {
	ts := newSet(t)
	ts.SetErrorStatus(func(err error) int {
		if errors.Is(err, errMissing) {
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	})
	view := web.ViewDef{Template: "result.html", Title: "Result"}

	t.Run("data", func(t *testing.T) {
		rec := httptest.NewRecorder()
		load := func(r *http.Request) (any, error) { return "dt1234", nil }
		ts.PageHandler("app", view, load)(rec, httptest.NewRequest("GET", "/results/x", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "DT1234") {
			t.Errorf("body missing data: %s", rec.Body.String())
		}
	})

	t.Run("error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		load := func(r *http.Request) (any, error) { return nil, errMissing }
		ts.PageHandler("app", view, load)(rec, httptest.NewRequest("GET", "/results/x", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if !strings.Contains(rec.Body.String(), "error: detection not found") {
			t.Errorf("body missing error: %s", rec.Body.String())
		}
	})
}

func TestErrorHandler(t *testing.T) {
	ts := newSet(t)
	view := web.ViewDef{Template: "result.html", Title: "Not Found"}

	rec := httptest.NewRecorder()
	ts.ErrorHandler("app", view, http.StatusNotFound)(rec, httptest.NewRequest("GET", "/nowhere", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "Not Found") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	ts := newSet(t)
	err := ts.Render(httptest.NewRecorder(), "app", "missing.html", web.ViewData{})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestDistServer(t *testing.T) {
	handler := web.DistServer(testFS(), "static", "/static/")

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/static/app.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "body{}" {
		t.Errorf("body = %q", body)
	}
}

func TestRouterFallback(t *testing.T) {
	r := web.NewRouter()
	r.HandleFunc("GET /known", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("no fallback: got %d, want %d", rec.Code, http.StatusNotFound)
	}

	r.SetFallback(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("fallback: got %d, want %d", rec.Code, http.StatusTeapot)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/known", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("known: got %d, want %d", rec.Code, http.StatusOK)
	}
}
