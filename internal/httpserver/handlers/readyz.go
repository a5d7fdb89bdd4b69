package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready   bool `json:"ready"`
	Targets int  `json:"targets"`
}

// Readyz is ready once definitions are loaded and one indexer is usable.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targets := len(d.MemoryIndex.Targets())
		ready := !d.MemoryIndex.GetLastReload().IsZero() && targets > 0

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Targets: targets})
	}
}
