package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
	redisstore "github.com/MrSnakeDoc/sift/internal/store/redis"
)

func TestStateSyncer_FlushAndRestore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := redisstore.NewStore(client)
	ctx := context.Background()

	statuses := status.NewManager()
	sessions := session.New(time.Hour)
	statuses.RecordFailure("mam", domain.ErrKindAuth)
	statuses.RecordSuccess("filelist", 120*time.Millisecond)
	sessions.Put("mam", map[string]string{"mam_id": "abc"}, time.Now().Add(time.Hour))

	require.NoError(t, NewStateSyncer(store, statuses, sessions, logger.Nop(), time.Minute).Flush(ctx))

	// A fresh process restores what was flushed
	restoredStatus := status.NewManager()
	restoredSessions := session.New(time.Hour)
	ss := NewStateSyncer(store, restoredStatus, restoredSessions, logger.Nop(), time.Minute)
	require.NoError(t, ss.Restore(ctx))

	mam := restoredStatus.Get("mam")
	assert.Equal(t, 1, mam.AuthFailureCount)
	assert.Equal(t, domain.ErrKindAuth, mam.LastFailureKind)
	assert.False(t, restoredStatus.Get("filelist").LastSuccess.IsZero())

	cookies, ok := restoredSessions.Get("mam")
	require.True(t, ok)
	assert.Equal(t, "abc", cookies["mam_id"])
}

func TestStateSyncer_RestoreFailsWithoutRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	ss := NewStateSyncer(redisstore.NewStore(client), status.NewManager(), session.New(0), logger.Nop(), time.Minute)
	assert.Error(t, ss.Restore(context.Background()))
}
