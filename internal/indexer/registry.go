package indexer

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Factory builds an adapter for a definition.
type Factory func(def *domain.IndexerDefinition) (Adapter, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register makes an implementation available by name.
// Adapter packages call it from init.
func Register(implementation string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()

	key := strings.ToLower(implementation)
	if _, dup := factories[key]; dup {
		panic(fmt.Sprintf("indexer implementation %q registered twice", implementation))
	}
	factories[key] = f
}

// Build instantiates the adapter selected by def.Implementation.
func Build(def *domain.IndexerDefinition) (Adapter, error) {
	factoriesMu.RLock()
	f, ok := factories[strings.ToLower(def.Implementation)]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown implementation %q for indexer %s", def.Implementation, def.ID)
	}
	a, err := f(def)
	if err != nil {
		return nil, fmt.Errorf("build indexer %s: %w", def.ID, err)
	}
	return a, nil
}

// Implementations lists registered implementation names.
func Implementations() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
