package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
)

// RSS returns the last background feed refresh.
func RSS(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Feed == nil {
			writeError(w, http.StatusNotFound, "rss refresh disabled")
			return
		}
		res := d.Feed.Latest()
		if res == nil {
			writeError(w, http.StatusServiceUnavailable, "feed not refreshed yet")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
