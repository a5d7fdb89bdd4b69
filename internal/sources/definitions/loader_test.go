package definitions

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleFile = `---
defaults:
  min_request_interval: 2s
  priority: 25
indexers:
  - id: mam
    name: MyAnonamouse
    implementation: myanonamouse
    privacy: private
    min_request_interval: 5s
    settings:
      mam_id: ${SIFT_TEST_MAM_ID}
      search_type: fl-VIP
  - id: jackett-demo
    implementation: torznab
    base_urls: [http://jackett:9117/api/v2.0/indexers/demo/results/torznab]
    enable: false
    priority: 10
    settings:
      apikey: abc
    capabilities:
      search: [q]
      movie_search: [q, imdbid]
      categories:
        - {id: "2000", name: Movies, mapped: [2000]}
        - {id: "100001", name: Remux, mapped: [2040, 2050]}
      limits: {default: 50, max: 100}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "indexers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	return path
}

func TestLoaderLoad(t *testing.T) {
	t.Setenv("SIFT_TEST_MAM_ID", "cookie-value")

	loader := NewLoader(writeFile(t, sampleFile))
	f, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(f.Indexers) != 2 {
		t.Fatalf("Load() returned %d indexers, want 2", len(f.Indexers))
	}
	if f.Defaults.MinRequestInterval != 2*time.Second {
		t.Errorf("default interval = %v, want 2s", f.Defaults.MinRequestInterval)
	}
	if got := f.Indexers[0].Settings["mam_id"]; got != "cookie-value" {
		t.Errorf("mam_id = %q, want expanded env value", got)
	}
	if got := f.Indexers[1].Capabilities.Categories[1].Mapped; len(got) != 2 {
		t.Errorf("mapped categories = %v, want 2 ids", got)
	}
}

func TestLoaderRejectsUnknownKeys(t *testing.T) {
	loader := NewLoader(writeFile(t, "indexers:\n  - id: x\n    implementaton: torznab\n"))
	if _, err := loader.Load(); err == nil {
		t.Fatal("Load() expected error for misspelled key")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := loader.Load(); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if _, err := loader.Checksum(); err == nil {
		t.Fatal("Checksum() expected error for missing file")
	}
}

func TestLoaderChecksum(t *testing.T) {
	path := writeFile(t, sampleFile)
	loader := NewLoader(path)

	first, err := loader.Checksum()
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	again, _ := loader.Checksum()
	if first != again {
		t.Error("Checksum() is not stable")
	}

	if err := os.WriteFile(path, []byte(sampleFile+"\n# edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, _ := loader.Checksum()
	if changed == first {
		t.Error("Checksum() did not change after edit")
	}
}
