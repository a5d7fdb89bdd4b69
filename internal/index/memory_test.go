package index

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/subsplease"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/torznab"
)

func entry(id string, priority int) *Indexer {
	return &Indexer{Definition: &domain.IndexerDefinition{ID: id, Name: id, Enable: true, Priority: priority}}
}

func TestNewMemoryIndex(t *testing.T) {
	index := NewMemoryIndex()
	if index == nil {
		t.Fatal("NewMemoryIndex() returned nil")
	}
	if index.Count() != 0 {
		t.Errorf("NewMemoryIndex() should start empty, got %d", index.Count())
	}
	if !index.GetLastReload().IsZero() {
		t.Error("last reload should be zero before the first Replace")
	}
}

func TestReplace(t *testing.T) {
	index := NewMemoryIndex()

	removed := index.Replace([]*Indexer{entry("b", 10), entry("a", 10), entry("c", 1)}, "sum1")
	if len(removed) != 0 {
		t.Errorf("first Replace removed %v", removed)
	}
	if index.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", index.Count())
	}
	if index.Checksum() != "sum1" {
		t.Errorf("Checksum() = %q", index.Checksum())
	}

	var ids []string
	for _, ix := range index.All() {
		ids = append(ids, ix.Definition.ID)
	}
	if got := strings.Join(ids, ","); got != "c,a,b" {
		t.Errorf("All() order = %s, want c,a,b", got)
	}
}

func TestReplaceMarksRemovedDisabled(t *testing.T) {
	index := NewMemoryIndex()
	index.Replace([]*Indexer{entry("a", 1), entry("b", 2)}, "sum1")

	removed := index.Replace([]*Indexer{entry("a", 1)}, "sum2")
	if len(removed) != 1 || removed[0] != "b" {
		t.Fatalf("removed = %v, want [b]", removed)
	}

	b, ok := index.Get("b")
	if !ok {
		t.Fatal("removed indexer should stay in the index until collected")
	}
	if !b.Definition.Disabled || b.Definition.UpdatedAt.IsZero() {
		t.Errorf("removed indexer not marked: %+v", b.Definition)
	}
	if index.Has("b") {
		t.Error("Has() should be false for a removed indexer")
	}

	// a second reload without b does not report it again
	if again := index.Replace([]*Indexer{entry("a", 1)}, "sum3"); len(again) != 0 {
		t.Errorf("second Replace removed %v", again)
	}

	// b coming back replaces the disabled entry
	index.Replace([]*Indexer{entry("a", 1), entry("b", 2)}, "sum4")
	if !index.Has("b") {
		t.Error("re-added indexer should be active")
	}
}

func TestTargets(t *testing.T) {
	index := NewMemoryIndex()
	off := entry("off", 1)
	off.Definition.Enable = false
	index.Replace([]*Indexer{entry("z", 5), off, entry("y", 0)}, "")
	index.Replace([]*Indexer{entry("z", 5), off}, "")

	targets := index.Targets()
	if len(targets) != 1 || targets[0].Definition.ID != "z" {
		t.Fatalf("Targets() = %+v, want only z", targets)
	}
}

func TestCollect(t *testing.T) {
	index := NewMemoryIndex()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	index.now = func() time.Time { return base }

	index.Replace([]*Indexer{entry("a", 1), entry("b", 1)}, "")
	index.Replace([]*Indexer{entry("a", 1)}, "")

	if ids := index.Collect(base); len(ids) != 0 {
		t.Errorf("Collect() before grace = %v", ids)
	}
	ids := index.Collect(base.Add(time.Hour))
	if len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("Collect() = %v, want [b]", ids)
	}
	if _, ok := index.Get("b"); ok {
		t.Error("collected indexer still present")
	}
	if !index.Has("a") {
		t.Error("active indexer should not be collected")
	}
}

func TestDelete(t *testing.T) {
	index := NewMemoryIndex()
	index.Replace([]*Indexer{entry("a", 1)}, "")
	index.Delete("a")
	if index.Count() != 0 {
		t.Errorf("Count() after Delete = %d", index.Count())
	}
}

func TestBuild(t *testing.T) {
	defs := []*domain.IndexerDefinition{
		{ID: "subsplease", Implementation: "subsplease", Enable: true},
		{ID: "broken", Implementation: "torznab", Enable: true},
		{ID: "ghost", Implementation: "nope", Enable: true},
	}

	built, err := Build(defs)
	if err == nil {
		t.Fatal("Build() should report the failing definitions")
	}
	if !strings.Contains(err.Error(), "broken") || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name both failing indexers: %v", err)
	}
	if len(built) != 1 || built[0].Definition.ID != "subsplease" {
		t.Fatalf("built = %d entries, want subsplease only", len(built))
	}
	if built[0].Adapter == nil {
		t.Error("adapter not set")
	}
	if len(Incomplete(built)) != 0 {
		t.Error("subsplease category table should be trusted")
	}
}

func TestConcurrentAccess(t *testing.T) {
	index := NewMemoryIndex()
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Go(func() {
			index.Replace([]*Indexer{entry("a", i), entry("b", 1)}, "")
		})
		wg.Go(func() {
			_ = index.Targets()
			_, _ = index.Get("a")
			_ = index.Count()
		})
	}
	wg.Wait()

	if index.Count() != 2 {
		t.Errorf("Count() = %d, want 2", index.Count())
	}
}
