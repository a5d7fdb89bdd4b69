package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
	redisstore "github.com/MrSnakeDoc/sift/internal/store/redis"
)

const (
	// DefaultGCThreshold is the duration after which removed indexers are deleted
	DefaultGCThreshold = 7 * 24 * time.Hour // 7 days
)

// GarbageCollector handles cleanup of removed indexers and stale sessions
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	status    *status.Manager
	sessions  *session.Cache
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
	now       func() time.Time
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	st *status.Manager,
	sessions *session.Cache,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		status:    st,
		sessions:  sessions,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect deletes indexers removed for longer than the threshold along with
// their status and session, then sweeps expired sessions.
func (gc *GarbageCollector) Collect(ctx context.Context) error {
	gc.logger.Debug("running garbage collection for removed indexers")

	ids := gc.index.Collect(gc.now().Add(-gc.threshold))
	for _, id := range ids {
		gc.status.Forget(id)

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteIndexer(ctx, id); err != nil {
				gc.logger.Warn("failed to delete indexer state from redis",
					logger.String("indexer", id),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected removed indexer",
			logger.String("indexer", id))
	}

	// Before the first reload every id looks unknown.
	var keep func(string) bool
	if !gc.index.GetLastReload().IsZero() {
		keep = gc.index.Has
	}
	swept := gc.sessions.Sweep(keep)

	if len(ids) > 0 || swept > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("indexers_deleted", len(ids)),
			logger.Int("sessions_dropped", swept))
	} else {
		gc.logger.Debug("no items to garbage collect")
	}

	return nil
}
