package server

import (
	"net/http"
	"strings"

	"image-drop/internal/storage"
)

// deleteHandler handles DELETE /delete/{filename}: remove one stored file
// by exact name. The name must be a single path component; traversal
// attempts and missing files both report 404, and nothing is removed.
// Authentication: required (checked by requireKey middleware).
func (s *Server) deleteHandler() http.Handler {
	return s.auth.requireKey(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/delete/")
		if !storage.SafeName(name) {
			GetMetrics().RecordDeleteError()
			writeError(w, http.StatusNotFound, "file not found")
			return
		}

		if err := s.store.Delete(name); err != nil {
			// Missing and unremovable collapse to the same outcome for
			// the client: the named file could not be deleted.
			GetMetrics().RecordDeleteError()
			writeError(w, http.StatusNotFound, "file not found")
			return
		}

		GetMetrics().RecordDelete()
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": name + " deleted",
		})
	}))
}
