package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/iris/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec(openapi.Config{Title: "Iris API", Description: "screening"}, "1.2.0")
	spec.AddServer("/api")
	spec.AddTag("Detections", "uploads")
	spec.AddTag("Chat", "")

	if spec.OpenAPI != "3.1.0" || spec.Info.Title != "Iris API" || spec.Info.Version != "1.2.0" {
		t.Errorf("unexpected info: %+v", spec.Info)
	}
	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers = %+v", spec.Servers)
	}
	if spec.Info.Description != "screening" {
		t.Errorf("description = %s", spec.Info.Description)
	}
	if len(spec.Tags) != 2 || spec.Tags[0].Name != "Detections" || spec.Tags[1].Name != "Chat" {
		t.Errorf("tags = %+v", spec.Tags)
	}
	for _, name := range []string{"BadRequest", "NotFound", "Conflict", "MethodNotAllowed", "PayloadTooLarge", "Unsupported"} {
		r, ok := spec.Components.Responses[name]
		if !ok {
			t.Errorf("missing response %s", name)
			continue
		}
		if r.Content["application/json"].Schema.Ref != "#/components/schemas/Error" {
			t.Errorf("%s schema = %+v", name, r.Content["application/json"].Schema)
		}
	}
}

func TestPathItemSet(t *testing.T) {
	tests := []struct {
		method string
		get    func(*openapi.PathItem) *openapi.Operation
	}{
		{"GET", func(p *openapi.PathItem) *openapi.Operation { return p.Get }},
		{"POST", func(p *openapi.PathItem) *openapi.Operation { return p.Post }},
		{"PUT", func(p *openapi.PathItem) *openapi.Operation { return p.Put }},
		{"PATCH", func(p *openapi.PathItem) *openapi.Operation { return p.Patch }},
		{"DELETE", func(p *openapi.PathItem) *openapi.Operation { return p.Delete }},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			item := &openapi.PathItem{}
			op := &openapi.Operation{Summary: tt.method}
			item.Set(tt.method, op)
			if tt.get(item) != op {
				t.Errorf("operation not set for %s", tt.method)
			}
		})
	}

	item := &openapi.PathItem{}
	item.Set("OPTIONS", &openapi.Operation{})
	if item.Get != nil || item.Post != nil || item.Put != nil || item.Patch != nil || item.Delete != nil {
		t.Error("unknown method should be ignored")
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Detection").Ref; ref != "#/components/schemas/Detection" {
		t.Errorf("SchemaRef = %s", ref)
	}
	if ref := openapi.ResponseRef("NotFound").Ref; ref != "#/components/responses/NotFound" {
		t.Errorf("ResponseRef = %s", ref)
	}

	body := openapi.RequestBodyJSON("ChatRequest", true)
	if !body.Required || body.Content["application/json"].Schema.Ref != "#/components/schemas/ChatRequest" {
		t.Errorf("RequestBodyJSON = %+v", body)
	}

	p := openapi.PathParam("id", "Detection ID")
	if p.In != "path" || !p.Required || p.Schema.Type != "string" || p.Schema.Format != "" {
		t.Errorf("PathParam = %+v", p)
	}

	q := openapi.QueryParam("severity", "string", "Severity filter", false)
	if q.In != "query" || q.Required {
		t.Errorf("QueryParam = %+v", q)
	}

	mp := openapi.MultipartBody([]string{"image"}, map[string]*openapi.Schema{
		"image": {Type: "string", Format: "binary"},
	})
	schema := mp.Content["multipart/form-data"].Schema
	if schema.Properties["image"].Format != "binary" || schema.Required[0] != "image" {
		t.Errorf("MultipartBody schema = %+v", schema)
	}
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec(openapi.Config{Title: "Iris API"}, "test")
	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %s", cc)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["openapi"] != "3.1.0" {
		t.Errorf("openapi = %v", got["openapi"])
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Screening API")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Title != "Screening API" {
		t.Errorf("title = %s", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("description default not applied")
	}

	cfg.Merge(&openapi.Config{Description: "override"})
	if cfg.Description != "override" || cfg.Title != "Screening API" {
		t.Errorf("merge = %+v", cfg)
	}
}
