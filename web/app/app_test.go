package app_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/iris/internal/content"
	"github.com/JaimeStill/iris/internal/detections"
	"github.com/JaimeStill/iris/internal/disease"
	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/pkg/module"
	"github.com/JaimeStill/iris/web/app"
)

type mockDetections struct {
	detections.System
	viewFn func(ctx context.Context, id string) (*detections.View, error)
}

func (m *mockDetections) View(ctx context.Context, id string) (*detections.View, error) {
	return m.viewFn(ctx, id)
}

func setup(t *testing.T, sys detections.System) http.Handler {
	t.Helper()

	cfg := app.Config{BasePath: "/app", APIBasePath: "/api", MaxUploadSize: 10 << 20}
	m, err := app.NewModule(cfg, sys, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	body, _ := io.ReadAll(rec.Body)
	return rec, string(body)
}

func TestHome(t *testing.T) {
	h := setup(t, &mockDetections{})

	for _, path := range []string{"/app", "/app/"} {
		rec, body := get(t, h, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
		for _, want := range []string{`data-api="/api"`, `name="image"`, "10 MB", "/app/static/upload.js"} {
			if !strings.Contains(body, want) {
				t.Errorf("GET %s body missing %q", path, want)
			}
		}
	}
}

func TestChatPage(t *testing.T) {
	h := setup(t, &mockDetections{})

	rec, body := get(t, h, "/app/chat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(body, "Dr. EyeBot") || !strings.Contains(body, "/app/static/chat.js") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestResults(t *testing.T) {
	key := "reports/report_DT0000ABCD.pdf"
	d := detections.Detection{
		ID:         "DT0000ABCD",
		PatientID:  "PT00000001",
		Disease:    disease.Glaucoma,
		Confidence: 87.5,
		Severity:   disease.Severe,
		Content: content.Bundle{
			English:    "Glaucoma damages the optic nerve.",
			Symptoms:   "• Loss of side vision\n- Eye pain",
			Disclaimer: "Screening aid only.",
		},
		ContentSource: content.SourceStatic,
		Probabilities: disease.Probabilities{disease.Glaucoma: 87.5, disease.Normal: 12.5},
		ReportKey:     &key,
		CreatedAt:     time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
	}
	patient := &patients.Patient{ID: "PT00000001", Name: "Jane", Age: 54, Gender: patients.GenderFemale}

	sys := &mockDetections{
		viewFn: func(_ context.Context, id string) (*detections.View, error) {
			if id != d.ID {
				return nil, detections.ErrNotFound
			}
			v := detections.NewView(d, patient)
			return &v, nil
		},
	}
	h := setup(t, sys)

	t.Run("found", func(t *testing.T) {
		rec, body := get(t, h, "/app/results/DT0000ABCD")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		for _, want := range []string{
			"Glaucoma",
			"87.50%",
			"SEVERE",
			"Jane (PT00000001), age 54, Female",
			"<li>Loss of side vision</li>",
			"<li>Eye pain</li>",
			"/api/detections/DT0000ABCD/report",
			"04 Mar 2026, 10:30",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("body missing %q", want)
			}
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec, body := get(t, h, "/app/results/DT99999999")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if !strings.Contains(body, "Result unavailable") {
			t.Errorf("unexpected body: %s", body)
		}
	})
}

func TestStatic(t *testing.T) {
	h := setup(t, &mockDetections{})

	rec, body := get(t, h, "/app/static/app.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(body, ".card") {
		t.Error("stylesheet not served")
	}
}

func TestNotFound(t *testing.T) {
	h := setup(t, &mockDetections{})

	rec, body := get(t, h, "/app/missing/page")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(body, "Not Found") {
		t.Errorf("unexpected body: %s", body)
	}
}
