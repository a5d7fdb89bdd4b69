package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sift/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sift/internal/httpserver/mw"
)

func init() { Register("ops", registerOps) }

// registerOps mounts the operational endpoints. They share the CIDR filter
// but skip the per-IP rate limit so probes never get throttled.
func registerOps(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))

		r.Get("/healthz", handlers.Healthz(d))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		if d.Metrics != nil {
			r.Handle("/metrics", d.Metrics)
		}

		r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
	})
}
