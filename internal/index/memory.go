package index

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
	"github.com/MrSnakeDoc/sift/internal/search"
)

// Indexer is a loaded definition with its adapter.
type Indexer struct {
	Definition   *domain.IndexerDefinition
	Adapter      indexer.Adapter
	Capabilities domain.Capabilities
}

// Usable reports whether the indexer may be targeted by searches.
func (i *Indexer) Usable() bool {
	return i.Definition.Enable && !i.Definition.Disabled
}

// MemoryIndex holds the loaded indexers. Definitions dropped from the file
// are kept as disabled until the garbage collector removes them, so their
// status and session can be cleaned up with them.
type MemoryIndex struct {
	mu         sync.RWMutex
	indexers   map[string]*Indexer // ID -> Indexer
	lastReload time.Time           // Timestamp of last definitions reload
	checksum   string              // Digest of the last applied definition file
	now        func() time.Time
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		indexers: make(map[string]*Indexer),
		now:      time.Now,
	}
}

// Replace installs a new set of indexers. Known indexers missing from the set
// are marked disabled and their ids returned.
func (idx *MemoryIndex) Replace(indexers []*Indexer, checksum string) []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	now := idx.now()
	next := make(map[string]*Indexer, len(indexers))
	for _, ix := range indexers {
		next[ix.Definition.ID] = ix
	}

	var removed []string
	for id, old := range idx.indexers {
		if _, ok := next[id]; ok {
			continue
		}
		if !old.Definition.Disabled {
			def := *old.Definition
			def.Disabled = true
			def.UpdatedAt = now
			old = &Indexer{Definition: &def, Adapter: old.Adapter, Capabilities: old.Capabilities}
			removed = append(removed, id)
		}
		next[id] = old
	}

	idx.indexers = next
	idx.lastReload = now
	idx.checksum = checksum
	slices.Sort(removed)
	return removed
}

// Get retrieves an indexer by ID
func (idx *MemoryIndex) Get(id string) (*Indexer, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ix, ok := idx.indexers[id]
	return ix, ok
}

// All returns every indexer, disabled ones included, by priority then id.
func (idx *MemoryIndex) All() []*Indexer {
	idx.mu.RLock()
	out := make([]*Indexer, 0, len(idx.indexers))
	for _, ix := range idx.indexers {
		out = append(out, ix)
	}
	idx.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Indexer) int {
		return cmp.Or(
			cmp.Compare(a.Definition.Priority, b.Definition.Priority),
			cmp.Compare(a.Definition.ID, b.Definition.ID),
		)
	})
	return out
}

// Targets returns the usable indexers as search targets.
func (idx *MemoryIndex) Targets() []search.Target {
	var out []search.Target
	for _, ix := range idx.All() {
		if ix.Usable() {
			out = append(out, search.Target{Definition: ix.Definition, Adapter: ix.Adapter})
		}
	}
	return out
}

// Has reports whether id is known and not removed. Used by session sweeps.
func (idx *MemoryIndex) Has(id string) bool {
	ix, ok := idx.Get(id)
	return ok && !ix.Definition.Disabled
}

// Delete removes an indexer from the index
func (idx *MemoryIndex) Delete(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.indexers, id)
}

// Collect deletes indexers removed before cutoff and returns their ids.
func (idx *MemoryIndex) Collect(cutoff time.Time) []string {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	var ids []string
	for id, ix := range idx.indexers {
		if ix.Definition.Disabled && ix.Definition.UpdatedAt.Before(cutoff) {
			delete(idx.indexers, id)
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Count returns the number of indexers in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.indexers)
}

// GetLastReload returns the timestamp of the last definitions reload
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Checksum returns the digest of the last applied definition file
func (idx *MemoryIndex) Checksum() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.checksum
}
