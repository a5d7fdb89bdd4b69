package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

const (
	// DefaultStatusTTL bounds how long a status survives without being synced (7 days)
	DefaultStatusTTL = 7 * 24 * time.Hour
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("not found")

// Store persists indexer statuses and sessions so they survive restarts.
// The search path never reads it: state lives in memory and is synced here.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// SaveStatus stores an indexer status in Redis
func (s *Store) SaveStatus(ctx context.Context, st domain.IndexerStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, StatusKey(st.IndexerID), data, DefaultStatusTTL)
	pipe.SAdd(ctx, KeyAllStatuses, st.IndexerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save status: %w", err)
	}
	return nil
}

// GetStatus retrieves an indexer status by ID
func (s *Store) GetStatus(ctx context.Context, id string) (domain.IndexerStatus, error) {
	var st domain.IndexerStatus
	data, err := s.client.Get(ctx, StatusKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return st, fmt.Errorf("status %s: %w", id, ErrNotFound)
		}
		return st, fmt.Errorf("failed to get status: %w", err)
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("failed to unmarshal status: %w", err)
	}
	return st, nil
}

// GetAllStatuses retrieves every persisted status. Expired members are
// removed from the id set.
func (s *Store) GetAllStatuses(ctx context.Context) ([]domain.IndexerStatus, error) {
	ids, err := s.client.SMembers(ctx, KeyAllStatuses).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get status IDs: %w", err)
	}

	out := make([]domain.IndexerStatus, 0, len(ids))
	for _, id := range ids {
		st, err := s.GetStatus(ctx, id)
		if errors.Is(err, ErrNotFound) {
			s.client.SRem(ctx, KeyAllStatuses, id)
			continue
		}
		if err != nil {
			// Skip statuses that couldn't be decoded
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

// SaveStatusesMany stores multiple statuses in one pipeline (bulk operation)
func (s *Store) SaveStatusesMany(ctx context.Context, statuses []domain.IndexerStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, st := range statuses {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to marshal status %s: %w", st.IndexerID, err)
		}
		pipe.Set(ctx, StatusKey(st.IndexerID), data, DefaultStatusTTL)
		pipe.SAdd(ctx, KeyAllStatuses, st.IndexerID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save statuses: %w", err)
	}
	return nil
}

// DeleteIndexer removes the status and session of an indexer
func (s *Store) DeleteIndexer(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, StatusKey(id), SessionKey(id))
	pipe.SRem(ctx, KeyAllStatuses, id)
	pipe.SRem(ctx, KeyAllSessions, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete indexer %s: %w", id, err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
