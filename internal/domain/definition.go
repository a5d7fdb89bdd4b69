package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/sift/internal/category"
)

// Protocol is the download protocol an indexer serves.
type Protocol string

const (
	ProtocolTorrent Protocol = "torrent"
	ProtocolUsenet  Protocol = "usenet"
)

// Privacy classifies indexer access.
type Privacy string

const (
	PrivacyPublic      Privacy = "public"
	PrivacySemiPrivate Privacy = "semi-private"
	PrivacyPrivate     Privacy = "private"
)

// IndexerDefinition is the configuration record for one indexer.
//
// It is owned by the definition loader and treated as read-only while a
// search is running. An indexer is uniquely identified by its ID.
type IndexerDefinition struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the stable key used by the status manager, session cache and rate gate.
	ID string

	// Name is the display name.
	Name string

	// Implementation selects the adapter factory.
	// Example: torznab, subsplease
	Implementation string

	// ─────────────────────────────
	// Endpoint
	// ─────────────────────────────

	// BaseURLs lists known site urls. The first one is used.
	BaseURLs []string

	Protocol Protocol
	Privacy  Privacy

	// ─────────────────────────────
	// Selection
	// ─────────────────────────────

	Enable bool

	// Priority orders indexers in a merged result, lower first.
	Priority int

	AppProfileID int
	Tags         []string

	// ─────────────────────────────
	// Adapter inputs
	// ─────────────────────────────

	// Settings carries implementation specific values (api keys, flags).
	Settings Settings

	// Capabilities overrides the adapter's declared capabilities.
	// Only generic implementations read it.
	Capabilities *CapabilitiesSpec

	// MinRequestInterval is the minimum spacing between two requests to this indexer.
	// Zero means the global default.
	MinRequestInterval time.Duration

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks an indexer removed from the definition file.
	// It is garbage-collected later.
	Disabled  bool
	UpdatedAt time.Time
}

// BaseURL returns the active base url with a trailing slash.
func (d *IndexerDefinition) BaseURL() string {
	if len(d.BaseURLs) == 0 {
		return ""
	}
	u := strings.TrimSpace(d.BaseURLs[0])
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// CapabilitiesSpec is a declarative capability set read from configuration.
type CapabilitiesSpec struct {
	Search      []SearchParam
	TVSearch    []SearchParam
	MovieSearch []SearchParam
	MusicSearch []SearchParam
	BookSearch  []SearchParam

	Categories []category.Entry

	LimitsDefault int
	LimitsMax     int
}

// Settings holds adapter specific configuration values.
type Settings map[string]string

// String returns the trimmed value for key.
func (s Settings) String(key string) string {
	return strings.TrimSpace(s[key])
}

// Bool parses key as a boolean. Missing or invalid values are false.
func (s Settings) Bool(key string) bool {
	b, err := strconv.ParseBool(s.String(key))
	return err == nil && b
}

// Int parses key as an integer, returning def when missing or invalid.
func (s Settings) Int(key string, def int) int {
	n, err := strconv.Atoi(s.String(key))
	if err != nil {
		return def
	}
	return n
}

// Ints parses a comma separated list of integers, skipping invalid items.
func (s Settings) Ints(key string) []int {
	raw := s.String(key)
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}
