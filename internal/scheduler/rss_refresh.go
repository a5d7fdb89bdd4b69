package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/search"
)

// Searcher runs an aggregated search. Implemented by *search.Engine.
type Searcher interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, targets []search.Target) (*search.Result, error)
}

// RSSRefresher periodically pulls the latest releases from every usable
// indexer and keeps the last merged feed.
type RSSRefresher struct {
	engine   Searcher
	index    *index.MemoryIndex
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}

	mu     sync.RWMutex
	latest *search.Result
}

// NewRSSRefresher creates a new RSS refresher
func NewRSSRefresher(engine Searcher, idx *index.MemoryIndex, log logger.Logger, interval time.Duration) *RSSRefresher {
	return &RSSRefresher{
		engine:   engine,
		index:    idx,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic refresh. A zero interval disables it.
func (rr *RSSRefresher) Start(ctx context.Context) {
	if rr.interval <= 0 {
		rr.logger.Info("rss refresh disabled")
		return
	}

	ticker := time.NewTicker(rr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rr.Refresh(ctx); err != nil {
					rr.logger.Warn("rss refresh failed", logger.Error(err))
				}
			case <-rr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresher
func (rr *RSSRefresher) Stop() {
	close(rr.stopCh)
}

// Refresh runs one feed search. Having no usable indexer is not an error.
func (rr *RSSRefresher) Refresh(ctx context.Context) error {
	res, err := rr.engine.Search(ctx, domain.SearchCriteria{Kind: domain.KindSearch}, rr.index.Targets())
	if errors.Is(err, domain.ErrNoIndexers) {
		rr.logger.Debug("rss refresh skipped, no usable indexer")
		return nil
	}
	if err != nil {
		return err
	}

	rr.mu.Lock()
	rr.latest = res
	rr.mu.Unlock()
	return nil
}

// Latest returns the last feed, or nil before the first refresh.
func (rr *RSSRefresher) Latest() *search.Result {
	rr.mu.RLock()
	defer rr.mu.RUnlock()
	return rr.latest
}
