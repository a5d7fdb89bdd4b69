package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/session"
	"github.com/MrSnakeDoc/sift/internal/status"
)

func indexer(id string) *index.Indexer {
	return &index.Indexer{Definition: &domain.IndexerDefinition{ID: id, Enable: true}}
}

func TestGarbageCollector_Collect(t *testing.T) {
	log := logger.New("error", false)
	memIndex := index.NewMemoryIndex()
	statuses := status.NewManager()
	sessions := session.New(time.Hour)

	memIndex.Replace([]*index.Indexer{indexer("active"), indexer("removed")}, "")
	memIndex.Replace([]*index.Indexer{indexer("active")}, "")

	statuses.RecordFailure("removed", domain.ErrKindTransport)
	statuses.RecordFailure("active", domain.ErrKindTransport)
	sessions.Put("removed", map[string]string{"uid": "1"}, time.Now().Add(time.Hour))
	sessions.Put("active", map[string]string{"uid": "2"}, time.Now().Add(time.Hour))

	gc := NewGarbageCollector(
		nil, // no Redis store for this test
		memIndex,
		statuses,
		sessions,
		log,
		24*time.Hour,
		time.Hour,
	)

	// Removed too recently: stays in the index, but its session is dropped
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if _, ok := memIndex.Get("removed"); !ok {
		t.Error("recently removed indexer was collected before the threshold")
	}
	if _, ok := sessions.Get("removed"); ok {
		t.Error("session of a removed indexer should be swept")
	}
	if _, ok := sessions.Get("active"); !ok {
		t.Error("session of an active indexer was swept")
	}

	// Past the threshold
	gc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if _, ok := memIndex.Get("removed"); ok {
		t.Error("old removed indexer was not collected")
	}
	if _, ok := memIndex.Get("active"); !ok {
		t.Error("active indexer was incorrectly collected")
	}

	for _, st := range statuses.Snapshot() {
		if st.IndexerID == "removed" {
			t.Error("status of a collected indexer should be forgotten")
		}
	}
}

func TestGarbageCollector_KeepsSessionsBeforeFirstReload(t *testing.T) {
	sessions := session.New(time.Hour)
	sessions.Put("mam", map[string]string{"mam_id": "x"}, time.Now().Add(time.Hour))

	gc := NewGarbageCollector(nil, index.NewMemoryIndex(), status.NewManager(), sessions,
		logger.Nop(), time.Hour, 0)
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if _, ok := sessions.Get("mam"); !ok {
		t.Error("restored session dropped before definitions were loaded")
	}
	if gc.threshold != DefaultGCThreshold {
		t.Errorf("threshold = %v, want default", gc.threshold)
	}
}
