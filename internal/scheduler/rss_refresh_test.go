package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/search"
)

type fakeSearcher struct {
	calls    int
	criteria domain.SearchCriteria
	targets  int
}

func (f *fakeSearcher) Search(_ context.Context, c domain.SearchCriteria, targets []search.Target) (*search.Result, error) {
	f.calls++
	f.criteria = c
	f.targets = len(targets)
	if len(targets) == 0 {
		return nil, domain.ErrNoIndexers
	}
	return &search.Result{ID: "feed", Releases: []domain.ReleaseInfo{{Title: "x"}}}, nil
}

func TestRSSRefresher_Refresh(t *testing.T) {
	idx := index.NewMemoryIndex()
	fs := &fakeSearcher{}
	rr := NewRSSRefresher(fs, idx, logger.Nop(), 0)

	// No indexer yet
	require.NoError(t, rr.Refresh(context.Background()))
	assert.Nil(t, rr.Latest())

	idx.Replace([]*index.Indexer{indexer("a"), indexer("b")}, "")
	require.NoError(t, rr.Refresh(context.Background()))

	assert.Equal(t, 2, fs.calls)
	assert.Equal(t, 2, fs.targets)
	assert.True(t, fs.criteria.IsRSS())
	require.NotNil(t, rr.Latest())
	assert.Equal(t, "feed", rr.Latest().ID)
}
