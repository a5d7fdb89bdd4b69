package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCache_AbsoluteExpiry(t *testing.T) {
	clk := newClock()
	c := New(time.Hour, WithClock(clk.Now))

	c.Put("mam", map[string]string{"mam_id": "abc"}, clk.Now().Add(10*time.Minute))

	clk.Advance(9 * time.Minute)
	got, ok := c.Get("mam")
	require.True(t, ok)
	assert.Equal(t, "abc", got["mam_id"])

	clk.Advance(time.Minute)
	_, ok = c.Get("mam")
	assert.False(t, ok, "entry must expire at its absolute expiry regardless of reads")
}

func TestCache_DefaultTTL(t *testing.T) {
	clk := newClock()
	c := New(30*time.Minute, WithClock(clk.Now))

	c.Put("fl", map[string]string{"uid": "1"}, time.Time{})
	clk.Advance(29 * time.Minute)
	_, ok := c.Get("fl")
	assert.True(t, ok)

	clk.Advance(time.Minute)
	_, ok = c.Get("fl")
	assert.False(t, ok)
}

func TestCache_GetReturnsCopy(t *testing.T) {
	c := New(time.Hour)
	c.Put("x", map[string]string{"a": "1"}, time.Time{})

	got, _ := c.Get("x")
	got["a"] = "mutated"

	again, _ := c.Get("x")
	assert.Equal(t, "1", again["a"])
}

func TestCache_InvalidateDropsFacts(t *testing.T) {
	c := New(time.Hour)
	c.Put("mam", map[string]string{"mam_id": "abc"}, time.Time{})
	c.PutFacts("mam", map[string]string{"user_class": "VIP"})

	v, ok := c.Fact("mam", "user_class")
	require.True(t, ok)
	assert.Equal(t, "VIP", v)

	c.Invalidate("mam")
	_, ok = c.Get("mam")
	assert.False(t, ok)
	assert.Nil(t, c.Facts("mam"))
}

func TestCache_PutEmptyInvalidates(t *testing.T) {
	c := New(time.Hour)
	c.Put("x", map[string]string{"a": "1"}, time.Time{})
	c.Put("x", nil, time.Time{})

	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestCache_PutFactsMerges(t *testing.T) {
	c := New(time.Hour)
	c.PutFacts("x", map[string]string{"a": "1"})
	c.PutFacts("x", map[string]string{"b": "2"})

	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, c.Facts("x"))
}

func TestCache_SnapshotRestore(t *testing.T) {
	clk := newClock()
	c := New(time.Hour, WithClock(clk.Now))
	c.Put("a", map[string]string{"k": "1"}, time.Time{})
	c.Put("b", map[string]string{"k": "2"}, clk.Now().Add(time.Minute))

	clk.Advance(2 * time.Minute)
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].IndexerID)

	restored := New(time.Hour, WithClock(clk.Now))
	n := restored.Restore(append(snap, domain.SessionEntry{
		IndexerID: "old",
		Cookies:   map[string]string{"k": "x"},
		Expiry:    clk.Now().Add(-time.Second),
	}))
	assert.Equal(t, 1, n)

	got, ok := restored.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", got["k"])
}

func TestCache_Sweep(t *testing.T) {
	clk := newClock()
	c := New(time.Hour, WithClock(clk.Now))
	c.Put("live", map[string]string{"k": "1"}, time.Time{})
	c.Put("expiring", map[string]string{"k": "1"}, clk.Now().Add(time.Minute))
	c.Put("removed", map[string]string{"k": "1"}, time.Time{})

	clk.Advance(2 * time.Minute)
	n := c.Sweep(func(id string) bool { return id != "removed" })
	assert.Equal(t, 2, n)

	_, ok := c.Get("live")
	assert.True(t, ok)
	assert.Len(t, c.Snapshot(), 1)
}

func TestCache_ConcurrentIndexers(t *testing.T) {
	c := New(time.Hour)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for j := range 100 {
				c.Put(id, map[string]string{"n": fmt.Sprint(j)}, time.Time{})
				c.Get(id)
				if j%10 == 0 {
					c.Invalidate(id)
				}
			}
		}(fmt.Sprintf("idx-%d", i))
	}
	wg.Wait()

	assert.Len(t, c.Snapshot(), 16)
}
