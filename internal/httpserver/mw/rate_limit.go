package mw

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/MrSnakeDoc/sift/internal/utils"
)

type RateLimitConfig struct {
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // tracked client IPs, least recently seen evicted first
	IdleTTL           time.Duration // a client unseen for this long starts with a full bucket
	TrustProxy        bool          // resolve IP from proxy headers when true
}

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	cfg     RateLimitConfig
	limit   rate.Limit
	buckets *expirable.LRU[string, *rate.Limiter]
}

func newIPLimiter(cfg RateLimitConfig) *ipLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.RefillPerIPPerMin = max(cfg.RefillPerIPPerMin, 1)

	return &ipLimiter{
		cfg:     cfg,
		limit:   rate.Limit(float64(cfg.RefillPerIPPerMin) / 60.0),
		buckets: expirable.NewLRU[string, *rate.Limiter](cfg.MaxEntries, nil, cfg.IdleTTL),
	}
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if lim, ok := l.buckets.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(l.limit, l.cfg.Burst)
	l.buckets.Add(key, lim)
	return lim
}

// allow takes one token for key. When none is left it returns the seconds
// until the next one.
func (l *ipLimiter) allow(key string, now time.Time) (ok bool, remaining int, retryAfterSec int) {
	lim := l.get(key)
	res := lim.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, 0, max(int(math.Ceil(delay.Seconds())), 1)
	}
	return true, max(int(math.Floor(lim.TokensAt(now))), 0), 0
}

// RateLimit applies a per-IP token bucket and sets X-RateLimit headers.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newIPLimiter(cfg)
	limitStr := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r, l.cfg.TrustProxy)

			ok, remaining, retry := l.allow(key, time.Now())
			w.Header().Set("X-RateLimit-Limit", limitStr)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
