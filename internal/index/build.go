package index

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/indexer"
)

// Build instantiates adapters for defs. Definitions whose adapter cannot be
// built are skipped and reported in the joined error.
func Build(defs []*domain.IndexerDefinition) ([]*Indexer, error) {
	out := make([]*Indexer, 0, len(defs))
	var errs []error
	for _, def := range defs {
		a, err := indexer.Build(def)
		if err != nil {
			errs = append(errs, fmt.Errorf("indexer %s: %w", def.ID, err))
			continue
		}
		out = append(out, &Indexer{
			Definition:   def,
			Adapter:      a,
			Capabilities: a.Capabilities(),
		})
	}
	return out, errors.Join(errs...)
}

// Incomplete lists the indexers whose category table was rejected.
func Incomplete(indexers []*Indexer) map[string]error {
	out := make(map[string]error)
	for _, ix := range indexers {
		if ix.Capabilities.Incomplete() {
			out[ix.Definition.ID] = ix.Capabilities.MappingErr
		}
	}
	return out
}
