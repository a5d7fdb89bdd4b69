package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sift/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sift/internal/httpserver/mw"
)

func init() { Register("api", registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
		if d.RateLimitBurst > 0 {
			r.Use(mw.RateLimit(mw.RateLimitConfig{
				Burst:             d.RateLimitBurst,
				RefillPerIPPerMin: d.RateLimitPerMinute,
				MaxEntries:        10000,
				IdleTTL:           15 * time.Minute,
				TrustProxy:        d.TrustProxy,
			}))
		}

		r.Get("/search", handlers.Search(d))
		r.Get("/rss", handlers.RSS(d))
		r.Get("/indexers", handlers.Indexers(d))
		r.Get("/indexers/status", handlers.IndexerStatuses(d))
		r.Get("/indexers/{id}/caps", handlers.Caps(d))
	})
}
