package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/sift/internal/index"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/subsplease"
	_ "github.com/MrSnakeDoc/sift/internal/indexers/torznab"
	"github.com/MrSnakeDoc/sift/internal/logger"
)

const twoIndexers = `
indexers:
  - id: subsplease
    implementation: subsplease
  - id: local
    implementation: torznab
    base_urls: [http://localhost:9117/torznab]
    priority: 5
`

const oneIndexer = `
indexers:
  - id: subsplease
    implementation: subsplease
  - id: broken
    implementation: does-not-exist
  - id: "Bad ID"
    implementation: torznab
`

type forgetRecorder struct{ ids []string }

func (f *forgetRecorder) Forget(id string) { f.ids = append(f.ids, id) }

func writeDefinitions(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write definitions: %v", err)
	}
}

func TestDefinitionsReloader_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indexers.yaml")
	writeDefinitions(t, path, twoIndexers)

	idx := index.NewMemoryIndex()
	forget := &forgetRecorder{}
	dr := NewDefinitionsReloader(path, idx, logger.Nop(), 0, nil, forget)

	if err := dr.Reload(context.Background(), false); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	targets := idx.Targets()
	if len(targets) != 2 {
		t.Fatalf("Targets() = %d, want 2", len(targets))
	}
	if targets[0].Definition.ID != "subsplease" {
		t.Errorf("default priority should sort subsplease first, got %s", targets[0].Definition.ID)
	}

	// Unchanged file is skipped
	before := idx.GetLastReload()
	if err := dr.Reload(context.Background(), false); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !idx.GetLastReload().Equal(before) {
		t.Error("unchanged file should not replace the index")
	}

	// Invalid entries are skipped, the removed one is forgotten
	writeDefinitions(t, path, oneIndexer)
	if err := dr.Reload(context.Background(), false); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if !idx.Has("subsplease") || idx.Has("local") {
		t.Error("index should only keep subsplease active")
	}
	if len(forget.ids) != 1 || forget.ids[0] != "local" {
		t.Errorf("forgotten = %v, want [local]", forget.ids)
	}
}

func TestDefinitionsReloader_Errors(t *testing.T) {
	dir := t.TempDir()
	idx := index.NewMemoryIndex()

	missing := NewDefinitionsReloader(filepath.Join(dir, "missing.yaml"), idx, logger.Nop(), 0, nil)
	if err := missing.Reload(context.Background(), true); err == nil {
		t.Error("missing file should fail")
	}

	path := filepath.Join(dir, "indexers.yaml")
	writeDefinitions(t, path, "indexers:\n  - id: x\n")
	empty := NewDefinitionsReloader(path, idx, logger.Nop(), 0, nil)
	if err := empty.Reload(context.Background(), true); err == nil {
		t.Error("file without a valid entry should fail")
	}
	if idx.Count() != 0 {
		t.Error("failed reload must not touch the index")
	}
}
