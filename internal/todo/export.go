package todo

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"todolist/internal/middleware"
	"todolist/internal/models"
)

// exportDocument is the JSON payload written to object storage.
type exportDocument struct {
	Username   string        `json:"username"`
	ExportedAt time.Time     `json:"exported_at"`
	Todos      []models.Todo `json:"todos"`
}

// Export snapshots the user's task list into object storage. The
// snapshot is per-user; a new export replaces the previous one.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	todos, err := h.svc.List(r.Context(), userID)
	if err != nil {
		log.Printf("export list: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "Failed to export todos",
		})
		return
	}

	doc := exportDocument{
		Username:   middleware.Username(r.Context()),
		ExportedAt: time.Now().UTC(),
		Todos:      todos,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "Failed to export todos",
		})
		return
	}

	if err := h.snapshots.PutSnapshot(r.Context(), userID, data); err != nil {
		log.Printf("export upload: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "Failed to store export",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(todos)})
}

// DownloadExport streams the user's latest snapshot as an attachment.
// Any retrieval failure reads as "no export yet"; the snapshot either
// exists in full or not at all.
func (h *Handler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	data, err := h.snapshots.GetSnapshot(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false, "error": "No export available",
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=todos.json")
	w.Write(data)
}

// DeleteExport removes the user's stored snapshot. Removing an absent
// snapshot succeeds, like logout on a dead session.
func (h *Handler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	if err := h.snapshots.DeleteSnapshot(r.Context(), userID); err != nil {
		log.Printf("export remove: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "error": "Failed to delete export",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
