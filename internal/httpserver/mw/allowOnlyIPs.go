package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/utils"
)

// AllowOnlyCIDRS restricts a route to the given IPs and CIDRs.
// An empty list disables the filter. trustProxy resolves the client from
// proxy headers (cloudflared, reverse proxies).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client ip rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path),
					logger.Bool("trust_proxy", trustProxy))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
