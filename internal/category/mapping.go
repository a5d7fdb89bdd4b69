package category

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMalformed is returned by NewMap when the mapping table cannot be trusted.
var ErrMalformed = errors.New("category mapping is malformed")

// Entry is one row of an indexer's category table.
// A native id may map to several canonical ids.
type Entry struct {
	NativeID  string
	Label     string
	Canonical []int
}

// Map translates between an indexer's native categories and the canonical taxonomy.
// A Map is immutable once built and safe for concurrent use.
type Map struct {
	entries  []Entry
	byNative map[string][]int
	byLabel  map[string][]int
	fallback Category
}

// NewMap builds a Map from entries. Unmapped lookups resolve to fallbackID
// (DefaultFallbackID when zero).
//
// When the table is malformed NewMap still returns a usable fallback-only Map
// together with an error wrapping ErrMalformed.
func NewMap(entries []Entry, fallbackID int) (*Map, error) {
	if fallbackID == 0 {
		fallbackID = DefaultFallbackID
	}
	fallback, ok := Lookup(fallbackID)
	if !ok {
		fallback = Category{ID: DefaultFallbackID, Name: "Other"}
	}

	m := &Map{
		byNative: make(map[string][]int, len(entries)),
		byLabel:  make(map[string][]int, len(entries)),
		fallback: fallback,
	}
	if !ok {
		return m, fmt.Errorf("%w: unknown fallback category %d", ErrMalformed, fallbackID)
	}

	built := make([]Entry, 0, len(entries))
	byNative := make(map[string][]int, len(entries))
	byLabel := make(map[string][]int, len(entries))
	for i, e := range entries {
		native := strings.TrimSpace(e.NativeID)
		if native == "" {
			return m, fmt.Errorf("%w: entry %d has no native id", ErrMalformed, i)
		}
		if len(e.Canonical) == 0 {
			return m, fmt.Errorf("%w: native %q has no canonical category", ErrMalformed, native)
		}
		for _, id := range e.Canonical {
			if _, known := Lookup(id); !known && !IsCustom(id) {
				return m, fmt.Errorf("%w: native %q maps to unknown category %d", ErrMalformed, native, id)
			}
		}

		key := nativeKey(native)
		canonical := slices.Clone(e.Canonical)
		byNative[key] = appendUnique(byNative[key], canonical...)
		if label := strings.ToLower(strings.TrimSpace(e.Label)); label != "" {
			byLabel[label] = appendUnique(byLabel[label], canonical...)
		}
		built = append(built, Entry{NativeID: native, Label: e.Label, Canonical: canonical})
	}

	m.entries = built
	m.byNative = byNative
	m.byLabel = byLabel
	return m, nil
}

// Fallback returns the bucket used for unmapped native categories.
func (m *Map) Fallback() Category {
	return m.fallback
}

// Len returns the number of table rows.
func (m *Map) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the table.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = Entry{NativeID: e.NativeID, Label: e.Label, Canonical: slices.Clone(e.Canonical)}
	}
	return out
}

// Has reports whether the table lists nativeID.
func (m *Map) Has(nativeID string) bool {
	_, ok := m.byNative[nativeKey(nativeID)]
	return ok
}

// ToCanonical maps a native category id. Unknown ids resolve to the fallback.
func (m *Map) ToCanonical(nativeID string) []Category {
	ids, ok := m.byNative[nativeKey(nativeID)]
	if !ok {
		return []Category{m.fallback}
	}
	return m.resolve(ids)
}

// ToCanonicalByLabel maps a native category label, for sites that only expose names.
func (m *Map) ToCanonicalByLabel(label string) []Category {
	ids, ok := m.byLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return []Category{m.fallback}
	}
	return m.resolve(ids)
}

// ToNative returns the native ids serving any of the requested canonical ids,
// de-duplicated and in table order. Requesting a parent (e.g. 5000) also
// selects native categories mapped to its children (e.g. 5070).
func (m *Map) ToNative(canonicalIDs []int) []string {
	if len(canonicalIDs) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, e := range m.entries {
		if !matchesAny(e.Canonical, canonicalIDs) {
			continue
		}
		if _, dup := seen[e.NativeID]; dup {
			continue
		}
		seen[e.NativeID] = struct{}{}
		out = append(out, e.NativeID)
	}
	return out
}

// Canonical returns the distinct canonical categories this indexer serves, in table order.
func (m *Map) Canonical() []Category {
	var ids []int
	for _, e := range m.entries {
		ids = appendUnique(ids, e.Canonical...)
	}
	return m.resolve(ids)
}

// Serves reports whether any native category satisfies one of the requested ids.
func (m *Map) Serves(canonicalIDs []int) bool {
	return len(m.ToNative(canonicalIDs)) > 0
}

func (m *Map) resolve(ids []int) []Category {
	out := make([]Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := Lookup(id); ok {
			out = append(out, c)
			continue
		}
		out = append(out, Category{ID: id, Name: fmt.Sprintf("Custom/%d", id)})
	}
	return out
}

func matchesAny(mapped, requested []int) bool {
	for _, want := range requested {
		for _, have := range mapped {
			if have == want {
				return true
			}
			if want%1000 == 0 && !IsCustom(have) && ParentOf(have) == want {
				return true
			}
		}
	}
	return false
}

func appendUnique(dst []int, ids ...int) []int {
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

func nativeKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
