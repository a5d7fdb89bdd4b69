package routes

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sift/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var registry []entry

// Register adds a named route group with optional group middlewares.
// Route files call it from init.
func Register(name string, reg Registrar, mws ...Middleware) {
	if slices.ContainsFunc(registry, func(e entry) bool { return e.name == name }) {
		panic("routes: group " + name + " registered twice")
	}
	registry = append(registry, entry{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every group on r and returns their names.
func RegisterAll(r chi.Router, d deps.Deps) []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
		} else {
			r.Group(func(g chi.Router) {
				g.Use(e.mws...)
				e.reg(g, d)
			})
		}
		names = append(names, e.name)
	}
	return names
}
