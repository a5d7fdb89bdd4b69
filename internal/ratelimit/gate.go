// Package ratelimit spaces outbound requests per indexer.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is used when neither the indexer nor the gate sets one.
const DefaultInterval = 2 * time.Second

// Gate keeps one limiter per indexer id. Limiters are created on first use
// and replaced when the indexer's interval changes.
type Gate struct {
	mu       sync.Mutex
	limiters map[string]*entry
	fallback time.Duration
}

type entry struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewGate creates a gate whose default spacing is interval.
func NewGate(interval time.Duration) *Gate {
	if interval < 0 {
		interval = DefaultInterval
	}
	return &Gate{
		limiters: make(map[string]*entry),
		fallback: interval,
	}
}

func (g *Gate) limiter(id string, interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		interval = g.fallback
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.limiters[id]
	if ok && e.interval == interval {
		return e.limiter
	}

	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if ok {
		e.limiter.SetLimit(limit)
		e.interval = interval
		return e.limiter
	}

	e = &entry{limiter: rate.NewLimiter(limit, 1), interval: interval}
	g.limiters[id] = e
	return e.limiter
}

// Wait blocks until the indexer may send its next request or ctx ends.
// interval overrides the gate default when positive.
//
// When the next slot lies beyond the ctx deadline Wait fails at once with an
// error wrapping context.DeadlineExceeded.
func (g *Gate) Wait(ctx context.Context, id string, interval time.Duration) error {
	if err := g.limiter(id, interval).Wait(ctx); err != nil {
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			return fmt.Errorf("rate gate %s: %w (%v)", id, context.DeadlineExceeded, err)
		}
		return fmt.Errorf("rate gate %s: %w", id, err)
	}
	return nil
}

// Allow reports whether a request may be sent right now, consuming the slot if so.
func (g *Gate) Allow(id string, interval time.Duration) bool {
	return g.limiter(id, interval).Allow()
}

// Forget drops the limiter of an indexer that no longer exists.
func (g *Gate) Forget(id string) {
	g.mu.Lock()
	delete(g.limiters, id)
	g.mu.Unlock()
}
