// Package session caches per-indexer cookie sets and derived identity facts.
//
// Reads never block on the network: a miss simply means the adapter falls
// back to its configured credentials.
package session

import (
	"maps"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

const (
	DefaultTTL      = 24 * time.Hour
	DefaultFactTTL  = time.Hour
	DefaultFactSize = 1024
)

// Cache holds one slot per indexer. Each slot has its own lock so work on
// different indexers never contends; the slot map itself is only
// write-locked when an indexer is seen for the first time.
type Cache struct {
	mu    sync.RWMutex
	slots map[string]*slot

	facts *expirable.LRU[string, map[string]string]

	ttl time.Duration
	now func() time.Time
}

type slot struct {
	mu    sync.Mutex
	entry *domain.SessionEntry
}

// Option configures a Cache.
type Option func(*cacheOptions)

type cacheOptions struct {
	now      func() time.Time
	factTTL  time.Duration
	factSize int
}

// WithClock injects the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(o *cacheOptions) { o.now = now }
}

// WithFacts sizes the identity facts cache.
func WithFacts(size int, ttl time.Duration) Option {
	return func(o *cacheOptions) {
		o.factSize = size
		o.factTTL = ttl
	}
}

// New creates a cache. Entries stored without an expiry live for ttl.
func New(ttl time.Duration, opts ...Option) *Cache {
	o := cacheOptions{now: time.Now, factTTL: DefaultFactTTL, factSize: DefaultFactSize}
	for _, opt := range opts {
		opt(&o)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{
		slots: make(map[string]*slot),
		facts: expirable.NewLRU[string, map[string]string](o.factSize, nil, o.factTTL),
		ttl:   ttl,
		now:   o.now,
	}
}

func (c *Cache) slot(id string) *slot {
	c.mu.RLock()
	s, ok := c.slots[id]
	c.mu.RUnlock()
	if ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok = c.slots[id]; !ok {
		s = &slot{}
		c.slots[id] = s
	}
	return s
}

// Get returns a copy of the indexer's cookies when present and not expired.
// Expired entries are dropped on read.
func (c *Cache) Get(id string) (map[string]string, bool) {
	s := c.slot(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == nil {
		return nil, false
	}
	if s.entry.Expired(c.now()) {
		s.entry = nil
		return nil, false
	}
	return maps.Clone(s.entry.Cookies), true
}

// Put replaces the indexer's cookies. A zero expiry means now + default TTL.
// Storing an empty cookie set is the same as Invalidate.
func (c *Cache) Put(id string, cookies map[string]string, expiry time.Time) {
	if len(cookies) == 0 {
		c.Invalidate(id)
		return
	}

	now := c.now()
	if expiry.IsZero() {
		expiry = now.Add(c.ttl)
	}

	s := c.slot(id)
	s.mu.Lock()
	s.entry = &domain.SessionEntry{
		IndexerID: id,
		Cookies:   maps.Clone(cookies),
		Expiry:    expiry,
		StoredAt:  now,
	}
	s.mu.Unlock()
}

// Invalidate drops the indexer's cookies and derived facts.
func (c *Cache) Invalidate(id string) {
	s := c.slot(id)
	s.mu.Lock()
	s.entry = nil
	c.facts.Remove(id)
	s.mu.Unlock()
}

// Facts returns a copy of the derived identity facts for the indexer.
func (c *Cache) Facts(id string) map[string]string {
	f, ok := c.facts.Get(id)
	if !ok {
		return nil
	}
	return maps.Clone(f)
}

// Fact returns one derived fact.
func (c *Cache) Fact(id, key string) (string, bool) {
	f, ok := c.facts.Get(id)
	if !ok {
		return "", false
	}
	v, ok := f[key]
	return v, ok
}

// PutFacts merges facts into the indexer's fact set.
func (c *Cache) PutFacts(id string, facts map[string]string) {
	if len(facts) == 0 {
		return
	}

	s := c.slot(id)
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]string, len(facts))
	if cur, ok := c.facts.Get(id); ok {
		maps.Copy(merged, cur)
	}
	maps.Copy(merged, facts)
	c.facts.Add(id, merged)
}

// Snapshot returns copies of every live entry.
func (c *Cache) Snapshot() []domain.SessionEntry {
	c.mu.RLock()
	ids := make([]string, 0, len(c.slots))
	for id := range c.slots {
		ids = append(ids, id)
	}
	c.mu.RUnlock()

	now := c.now()
	out := make([]domain.SessionEntry, 0, len(ids))
	for _, id := range ids {
		s := c.slot(id)
		s.mu.Lock()
		if s.entry != nil && !s.entry.Expired(now) {
			out = append(out, s.entry.Clone())
		}
		s.mu.Unlock()
	}
	return out
}

// Restore loads persisted entries, skipping expired ones. Entries already in
// memory win. It returns the number of entries restored.
func (c *Cache) Restore(entries []domain.SessionEntry) int {
	now := c.now()
	restored := 0
	for _, e := range entries {
		if e.IndexerID == "" || len(e.Cookies) == 0 || e.Expired(now) {
			continue
		}
		s := c.slot(e.IndexerID)
		s.mu.Lock()
		if s.entry == nil {
			clone := e.Clone()
			s.entry = &clone
			restored++
		}
		s.mu.Unlock()
	}
	return restored
}

// Sweep removes expired entries and slots of unknown indexers.
// keep reports whether an indexer id is still configured.
func (c *Cache) Sweep(keep func(id string) bool) int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, s := range c.slots {
		s.mu.Lock()
		expired := s.entry != nil && s.entry.Expired(now)
		gone := keep != nil && !keep(id)
		if expired || gone {
			if s.entry != nil {
				removed++
			}
			s.entry = nil
		}
		if gone {
			c.facts.Remove(id)
			delete(c.slots, id)
		}
		s.mu.Unlock()
	}
	return removed
}
