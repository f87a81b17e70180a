package patients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeStill/iris/internal/patients"
	"github.com/JaimeStill/iris/pkg/pagination"
	"github.com/JaimeStill/iris/pkg/routes"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters patients.Filters) (*pagination.PageResult[patients.Patient], error)
	findFn   func(ctx context.Context, id string) (*patients.Patient, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockSystem) Handler() *patients.Handler {
	return patients.NewHandler(m, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters patients.Filters) (*pagination.PageResult[patients.Patient], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id string) (*patients.Patient, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Count(context.Context) (int, error) { return 0, nil }

func (m *mockSystem) GetOrCreate(context.Context, patients.GetOrCreateCommand) (*patients.Patient, bool, error) {
	return nil, false, nil
}

func (m *mockSystem) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

func samplePatient() patients.Patient {
	return patients.Patient{
		ID:        "PT1A2B3C4D",
		Name:      "Jane",
		Age:       30,
		Gender:    patients.GenderFemale,
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestHandlerList(t *testing.T) {
	var gotFilters patients.Filters
	var gotPage pagination.PageRequest
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters patients.Filters) (*pagination.PageResult[patients.Patient], error) {
			gotPage, gotFilters = page, filters
			result := pagination.NewPageResult([]patients.Patient{samplePatient()}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	req := httptest.NewRequest("GET", "/patients?gender=f&name=ja&page=2", nil)
	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotFilters.Gender == nil || *gotFilters.Gender != "F" {
		t.Errorf("gender filter = %v", gotFilters.Gender)
	}
	if gotFilters.Name == nil || *gotFilters.Name != "ja" {
		t.Errorf("name filter = %v", gotFilters.Name)
	}
	if gotPage.Page != 2 || gotPage.PageSize != 20 {
		t.Errorf("page = %+v", gotPage)
	}

	var body pagination.PageResult[patients.Patient]
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != "PT1A2B3C4D" {
		t.Errorf("body = %+v", body)
	}
}

func TestHandlerFind(t *testing.T) {
	sys := &mockSystem{
		findFn: func(_ context.Context, id string) (*patients.Patient, error) {
			if id == "PT1A2B3C4D" {
				p := samplePatient()
				return &p, nil
			}
			return nil, patients.ErrNotFound
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		path   string
		status int
	}{
		{"/patients/PT1A2B3C4D", http.StatusOK},
		{"/patients/PT00000000", http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.status)
		}
	}
}

func TestHandlerDelete(t *testing.T) {
	var deleted string
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id string) error {
			if id == "missing" {
				return patients.ErrNotFound
			}
			deleted = id
			return nil
		},
	}
	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/patients/PT1A2B3C4D", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if deleted != "PT1A2B3C4D" {
		t.Errorf("deleted = %q", deleted)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", "/patients/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
