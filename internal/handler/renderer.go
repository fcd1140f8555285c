package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"

	"github.com/dukerupert/addressbook/internal/middleware"
)

// Renderer manages template parsing and rendering with isolated template sets.
// Every page is parsed into its own clone of layout.html so pages can define
// the same block names without clashing.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the templates found in templatesDir.
func NewRenderer(templatesDir string) (*Renderer, error) {
	return NewRendererFS(os.DirFS(templatesDir))
}

// NewRendererFS parses layout.html plus every other *.html page in fsys.
func NewRendererFS(fsys fs.FS) (*Renderer, error) {
	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFS(fsys, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := fs.Glob(fsys, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		if page == "layout.html" {
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(fsys, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		name := page[:len(page)-len(path.Ext(page))]
		templates[name] = pageTmpl
	}

	return &Renderer{templates: templates}, nil
}

// Execute returns the template set for a page.
func (r *Renderer) Execute(name string) (*template.Template, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render writes a page wrapped in the layout to w.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.Execute(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderHTTP renders a page with the given status. Output is buffered so a
// template failure turns into a clean 500 instead of a half-written page.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, req *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		middleware.GetLogger(req.Context()).Error("render failed", "template", name, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
