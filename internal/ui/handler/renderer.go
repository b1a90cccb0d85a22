package handler

import (
	"html/template"
	"io"
	"io/fs"
	"sync"

	"github.com/gin-gonic/gin"
)

// Renderer executes pages as layouts/base.html plus pages/<name>.html, with
// every partial available to both.
type Renderer struct {
	fsys      fs.FS
	templates map[string]*template.Template
	partials  *template.Template
	mu        sync.RWMutex
	funcs     template.FuncMap
}

func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{
		fsys:      fsys,
		templates: make(map[string]*template.Template),
		funcs:     template.FuncMap{},
	}
}

func (r *Renderer) loadTemplate(name string) (*template.Template, error) {
	r.mu.RLock()
	if tmpl, ok := r.templates[name]; ok {
		r.mu.RUnlock()
		return tmpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}

	tmpl, err := template.New("").Funcs(r.funcs).ParseFS(r.fsys,
		"layouts/base.html",
		"partials/*.html",
		"pages/"+name+".html",
	)
	if err != nil {
		return nil, err
	}

	r.templates[name] = tmpl
	return tmpl, nil
}

func (r *Renderer) loadPartials() (*template.Template, error) {
	r.mu.RLock()
	if r.partials != nil {
		defer r.mu.RUnlock()
		return r.partials, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.partials != nil {
		return r.partials, nil
	}
	tmpl, err := template.New("").Funcs(r.funcs).ParseFS(r.fsys, "partials/*.html")
	if err != nil {
		return nil, err
	}
	r.partials = tmpl
	return tmpl, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	tmpl, err := r.loadTemplate(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (r *Renderer) RenderPartial(w io.Writer, name string, data any) error {
	tmpl, err := r.loadPartials()
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

func (r *Renderer) HTML(c *gin.Context, code int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := r.Render(c.Writer, name, data); err != nil {
		c.String(500, "Template error: %v", err)
	}
}

func (r *Renderer) Partial(c *gin.Context, code int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(code)
	if err := r.RenderPartial(c.Writer, name, data); err != nil {
		c.String(500, "Template error: %v", err)
	}
}
