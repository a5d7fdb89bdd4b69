package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
	redisstore "github.com/MrSnakeDoc/sift/internal/store/redis"
)

// StateSyncer mirrors indexer status records and sessions to Redis and
// restores them on startup. Searches only ever touch the in-memory copies.
type StateSyncer struct {
	store    *redisstore.Store
	status   *status.Manager
	sessions *session.Cache
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewStateSyncer creates a new state syncer
func NewStateSyncer(
	store *redisstore.Store,
	st *status.Manager,
	sessions *session.Cache,
	log logger.Logger,
	interval time.Duration,
) *StateSyncer {
	return &StateSyncer{
		store:    store,
		status:   st,
		sessions: sessions,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Restore loads persisted state from Redis into memory
func (ss *StateSyncer) Restore(ctx context.Context) error {
	ss.logger.Info("restoring indexer state from redis")

	statuses, err := ss.store.GetAllStatuses(ctx)
	if err != nil {
		return err
	}
	sessions, err := ss.store.GetAllSessions(ctx)
	if err != nil {
		return err
	}

	ss.logger.Info("restored indexer state from redis",
		logger.Int("statuses", ss.status.Restore(statuses)),
		logger.Int("sessions", ss.sessions.Restore(sessions)))

	return nil
}

// Flush writes the current in-memory state to Redis
func (ss *StateSyncer) Flush(ctx context.Context) error {
	statuses := ss.status.Snapshot()
	sessions := ss.sessions.Snapshot()

	err := errors.Join(
		ss.store.SaveStatusesMany(ctx, statuses),
		ss.store.SaveSessionsMany(ctx, sessions),
	)
	if err != nil {
		return err
	}

	ss.logger.Debug("indexer state saved to redis",
		logger.Int("statuses", len(statuses)),
		logger.Int("sessions", len(sessions)))
	return nil
}

// Start begins the periodic flush
func (ss *StateSyncer) Start(ctx context.Context) {
	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ss.Flush(ctx); err != nil {
					ss.logger.Warn("failed to save indexer state to redis",
						logger.Error(err))
				}
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the periodic flush. The caller runs a last Flush itself.
func (ss *StateSyncer) Stop() {
	close(ss.stopCh)
}
