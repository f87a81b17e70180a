package routes

import (
	"net/http"

	"github.com/JaimeStill/iris/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. An empty Method
// matches every method, leaving method checks to the handler. OpenAPI, when
// set, documents the route in the generated spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// pattern returns the ServeMux pattern for r beneath prefix.
func (r Route) pattern(prefix string) string {
	path := r.path(prefix)
	if r.Method == "" {
		return path
	}
	return r.Method + " " + path
}

func (r Route) path(prefix string) string {
	path := prefix + r.Pattern
	if path == "" {
		path = "/"
	}
	return path
}
