// Package web provides infrastructure for serving server-rendered pages with
// Go templates and embedded static assets.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a page with its route, template file, and title.
type ViewDef struct {
	Route    string
	Template string
	Title    string
}

// ViewData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	BasePath string
	Error    string
	Data     any
}

// Loader produces the page data for a request.
type Loader func(r *http.Request) (any, error)

// TemplateSet holds pre-parsed templates and a base path for URL generation.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
	status   func(error) int
}

// NewTemplateSet parses the layout templates and clones them for each view.
// funcs may be nil.
func NewTemplateSet(layoutFS, viewFS fs.FS, layoutGlob, viewSubdir, basePath string, funcs template.FuncMap, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.New("").Funcs(funcs).ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(viewFS, viewSubdir)
	if err != nil {
		return nil, err
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, p := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", p.Template, err)
		}
		if _, err = t.ParseFS(viewSub, p.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", p.Template, err)
		}
		viewTemplates[p.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		basePath: basePath,
		status:   func(error) int { return http.StatusInternalServerError },
	}, nil
}

// BasePath returns the URL prefix the set renders links against.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// SetErrorStatus configures how loader errors map to response status codes.
func (ts *TemplateSet) SetErrorStatus(fn func(error) int) {
	ts.status = fn
}

// ErrorHandler returns an HTTP handler that renders an error page with the given status code.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{
			Title:    view.Title,
			BasePath: ts.basePath,
			Error:    http.StatusText(status),
		}
		ts.write(w, status, layout, view.Template, data)
	}
}

// PageHandler returns an HTTP handler that renders the given view.
// When load is non-nil its result becomes ViewData.Data; a load error renders
// the view with ViewData.Error set and the status chosen by SetErrorStatus.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef, load Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := ViewData{
			Title:    view.Title,
			BasePath: ts.basePath,
		}

		status := http.StatusOK
		if load != nil {
			v, err := load(r)
			if err != nil {
				status = ts.status(err)
				data.Error = err.Error()
			} else {
				data.Data = v
			}
		}

		ts.write(w, status, layout, view.Template, data)
	}
}

// Render executes the named layout template with the given view data.
func (ts *TemplateSet) Render(w http.ResponseWriter, layoutName, viewPath string, data ViewData) error {
	t, ok := ts.views[viewPath]
	if !ok {
		return fmt.Errorf("template not found: %s", viewPath)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, layoutName, data)
}

// Output is buffered so a failed execution never sends a partial page.
func (ts *TemplateSet) write(w http.ResponseWriter, status int, layout, viewPath string, data ViewData) {
	t, ok := ts.views[viewPath]
	if !ok {
		http.Error(w, "template not found: "+viewPath, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
