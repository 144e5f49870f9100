// Package web holds the embedded HTML views. The views are
// deliberately minimal; the interesting behavior lives behind them.
package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"todolist/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// AuthPage is the data for the login and register views.
type AuthPage struct {
	Error string
}

// TodosPage is the data for the task list view.
type TodosPage struct {
	Username string
	Todos    []models.Todo
}

// Renderer executes the embedded templates.
type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

// Render writes the named view with the given status. Template failures
// are logged and surfaced as a bare 500; they cannot be rendered.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.t.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}
