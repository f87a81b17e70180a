// Package routes declares route groups and registers them on a ServeMux.
package routes

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/iris/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags. Children
// inherit the prefix.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		group.walk("", func(prefix string, route Route) {
			mux.HandleFunc(route.pattern(prefix), route.Handler)
		})
	}
}

// Patterns returns every ServeMux pattern a group would register, in order.
func (g Group) Patterns() []string {
	var out []string
	g.walk("", func(prefix string, route Route) {
		out = append(out, route.pattern(prefix))
	})
	return out
}

// Describe adds every documented route in groups to spec.Paths. Operations
// without tags inherit their group's tags. Wildcard segments such as
// {key...} are written as {key}.
func Describe(spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		group.walk("", func(prefix string, route Route) {
			if route.OpenAPI == nil || route.Method == "" {
				return
			}
			op := *route.OpenAPI
			if len(op.Tags) == 0 {
				op.Tags = group.Tags
			}

			path := strings.ReplaceAll(route.path(prefix), "...}", "}")
			item, ok := spec.Paths[path]
			if !ok {
				item = &openapi.PathItem{}
				spec.Paths[path] = item
			}
			item.Set(route.Method, &op)
		})
	}
}

func (g Group) walk(parent string, fn func(prefix string, route Route)) {
	prefix := parent + g.Prefix
	for _, route := range g.Routes {
		fn(prefix, route)
	}
	for _, child := range g.Children {
		child.walk(prefix, fn)
	}
}
