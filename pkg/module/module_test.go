package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/iris/pkg/module"
)

func TestNewValidatesPrefix(t *testing.T) {
	tests := []struct {
		prefix    string
		wantPanic bool
	}{
		{"/api", false},
		{"/app", false},
		{"", true},
		{"/", true},
		{"api", true},
		{"/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			defer func() {
				if r := recover(); (r != nil) != tt.wantPanic {
					t.Errorf("panic = %v, wantPanic %v", r, tt.wantPanic)
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestRouterDispatch(t *testing.T) {
	inner := http.NewServeMux()
	inner.HandleFunc("GET /detections/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("detection " + r.PathValue("id")))
	})
	inner.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("root"))
	})

	var sawMiddleware bool
	api := module.New("/api", inner)
	api.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sawMiddleware = true
			next.ServeHTTP(w, r)
		})
	})

	router := module.NewRouter()
	router.Mount(api)
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.RedirectRoot("/app")

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/api/detections/DT1", http.StatusOK, "detection DT1"},
		{"/api/detections/DT1/", http.StatusOK, "detection DT1"},
		{"/api", http.StatusOK, "root"},
		{"/healthz", http.StatusOK, "ok"},
		{"/apix/detections", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}

	if !sawMiddleware {
		t.Error("module middleware did not run")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/app" {
		t.Errorf("root redirect = %d %s", rec.Code, rec.Header().Get("Location"))
	}
}
