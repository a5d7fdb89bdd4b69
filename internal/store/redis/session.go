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

// SaveSession stores a session until its expiry. Expired entries are skipped.
func (s *Store) SaveSession(ctx context.Context, e domain.SessionEntry) error {
	return s.SaveSessionsMany(ctx, []domain.SessionEntry{e})
}

// SaveSessionsMany stores sessions in one pipeline. Each key expires with its session.
func (s *Store) SaveSessionsMany(ctx context.Context, entries []domain.SessionEntry) error {
	now := time.Now()
	pipe := s.client.Pipeline()
	queued := 0
	for _, e := range entries {
		ttl := e.Expiry.Sub(now)
		if ttl <= 0 {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", e.IndexerID, err)
		}
		pipe.Set(ctx, SessionKey(e.IndexerID), data, ttl)
		pipe.SAdd(ctx, KeyAllSessions, e.IndexerID)
		queued++
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}
	return nil
}

// GetSession retrieves the session of an indexer
func (s *Store) GetSession(ctx context.Context, id string) (domain.SessionEntry, error) {
	var e domain.SessionEntry
	data, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return e, fmt.Errorf("session %s: %w", id, ErrNotFound)
		}
		return e, fmt.Errorf("failed to get session: %w", err)
	}
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return e, nil
}

// GetAllSessions retrieves every live session.
func (s *Store) GetAllSessions(ctx context.Context) ([]domain.SessionEntry, error) {
	ids, err := s.client.SMembers(ctx, KeyAllSessions).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session IDs: %w", err)
	}

	now := time.Now()
	out := make([]domain.SessionEntry, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetSession(ctx, id)
		if errors.Is(err, ErrNotFound) {
			s.client.SRem(ctx, KeyAllSessions, id)
			continue
		}
		if err != nil || e.Expired(now) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// DeleteSession removes the session of an indexer
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, SessionKey(id))
	pipe.SRem(ctx, KeyAllSessions, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// FlushSessions removes every persisted session
func (s *Store) FlushSessions(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixSession+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete session key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush sessions: %w", err)
	}
	if err := s.client.Del(ctx, KeyAllSessions).Err(); err != nil {
		return fmt.Errorf("failed to flush sessions: %w", err)
	}
	return nil
}
