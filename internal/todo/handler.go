package todo

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"todolist/internal/middleware"
	"todolist/internal/models"
	"todolist/internal/web"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SnapshotStore defines the interface for export snapshot storage,
// one snapshot per user.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, userID string, data []byte) error
	GetSnapshot(ctx context.Context, userID string) ([]byte, error)
	DeleteSnapshot(ctx context.Context, userID string) error
}

// Handler holds the task HTTP handlers.
type Handler struct {
	svc       *Service
	snapshots SnapshotStore
	views     *web.Renderer
}

func NewHandler(svc *Service, snapshots SnapshotStore, views *web.Renderer) *Handler {
	return &Handler{svc: svc, snapshots: snapshots, views: views}
}

// GetTodos renders the task list page.
func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	todos, err := h.svc.List(r.Context(), userID)
	if err != nil {
		log.Printf("load todos: %v", err)
		http.Error(w, "Failed to load todos", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, http.StatusOK, "todos.html", web.TodosPage{
		Username: middleware.Username(r.Context()),
		Todos:    todos,
	})
}

// ListAPI returns the task list as JSON.
func (h *Handler) ListAPI(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	todos, err := h.svc.List(r.Context(), userID)
	if err != nil {
		log.Printf("fetch todos: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "Failed to fetch todos",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "todos": todos})
}

// Create adds a new task. A blank description is a silent success:
// browsers are redirected back, machine callers get success with no todo.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	in := decodeInput(r)

	created, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, r, "create todo", err)
		return
	}

	if middleware.Mode(r) == middleware.ModeJSON {
		if created == nil {
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "todo": created})
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Toggle flips the completed flag.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	updated, err := h.svc.Toggle(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, "toggle todo", err)
		return
	}

	if middleware.Mode(r) == middleware.ModeJSON {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "completed": updated.Completed})
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Update replaces the editable fields of a task.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")
	in := decodeInput(r)

	updated, err := h.svc.Update(r.Context(), userID, id, in)
	if err != nil {
		h.writeError(w, r, "update todo", err)
		return
	}

	if middleware.Mode(r) == middleware.ModeJSON {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "todo": updated})
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// Delete permanently removes a task.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, "delete todo", err)
		return
	}

	if middleware.Mode(r) == middleware.ModeJSON {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// writeError maps service errors onto the caller's ResponseMode.
// Browsers are always sent back to the list; machine callers get the
// matching status code. NotFound never distinguishes "someone else's"
// from "nonexistent".
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	mode := middleware.Mode(r)

	switch {
	case errors.Is(err, ErrNotFound):
		if mode == middleware.ModeJSON {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Todo not found"})
			return
		}
	case errors.Is(err, ErrValidation):
		if mode == middleware.ModeJSON {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
			return
		}
	default:
		log.Printf("%s: %v", op, err)
		if mode == middleware.ModeJSON {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to " + op})
			return
		}
	}
	http.Redirect(w, r, "/todos", http.StatusFound)
}

// decodeInput reads the task fields from a JSON body or a form post.
func decodeInput(r *http.Request) models.TodoInput {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var in models.TodoInput
		if err := json.NewDecoder(r.Body).Decode(&in); err == nil {
			return in
		}
		return models.TodoInput{}
	}
	return models.TodoInput{
		Task:     r.FormValue("task"),
		Time:     r.FormValue("time"),
		Category: r.FormValue("category"),
		Priority: r.FormValue("priority"),
	}
}
