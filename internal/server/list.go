package server

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// listEntry is the read-only projection of a stored file returned by /list.
// It is recomputed from the filesystem on every request, never cached.
type listEntry struct {
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	IsDirectory bool      `json:"isDirectory"`
	Modified    time.Time `json:"modified"`
	URL         string    `json:"url"`
}

// listHandler handles GET /list: enumerate the storage directory
// non-recursively and report entries with an allowed image extension.
// Order is filesystem enumeration order, not guaranteed sorted.
func (s *Server) listHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		entries, err := s.store.List()
		if err != nil {
			logrus.WithField("rid", RequestIDFromContext(r.Context())).
				Errorf("list storage: %v", err)
			writeError(w, http.StatusInternalServerError, "unable to scan storage directory")
			return
		}

		out := make([]listEntry, 0, len(entries))
		for _, e := range entries {
			if !isAllowedImageName(e.Name) {
				continue
			}
			out = append(out, listEntry{
				Name:        e.Name,
				Size:        e.Size,
				IsDirectory: e.IsDir,
				Modified:    e.Modified,
				URL:         "/" + e.Name,
			})
		}
		writeJSON(w, http.StatusOK, out)
	})
}
