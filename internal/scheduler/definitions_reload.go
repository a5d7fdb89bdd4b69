package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/sources/definitions"
)

// Forgetter drops per-indexer state. Implemented by the rate gate and metrics.
type Forgetter interface {
	Forget(id string)
}

// DefinitionsReloader handles periodic reloading of the indexer definition file
type DefinitionsReloader struct {
	loader        *definitions.Loader
	mapper        *definitions.Mapper
	index         *index.MemoryIndex
	forget        []Forgetter
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewDefinitionsReloader creates a new definitions reloader.
// forget is called for every indexer dropped from the file.
func NewDefinitionsReloader(
	definitionFile string,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
	forget ...Forgetter,
) *DefinitionsReloader {
	return &DefinitionsReloader{
		loader:        definitions.NewLoader(definitionFile),
		mapper:        definitions.NewMapper(),
		index:         idx,
		forget:        forget,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (dr *DefinitionsReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := dr.Reload(ctx, true); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(dr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := dr.Reload(ctx, false); err != nil {
					dr.logger.Error("failed to reload indexer definitions",
						logger.Error(err))
				}
			case <-dr.manualTrigger:
				dr.logger.Info("manual reload triggered")
				if err := dr.Reload(ctx, true); err != nil {
					dr.logger.Error("failed to reload indexer definitions",
						logger.Error(err))
				}
			case <-dr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (dr *DefinitionsReloader) Stop() {
	close(dr.stopCh)
}

// Reload reads the definition file and swaps the indexer index.
// Unless force is set, an unchanged file is skipped.
//
// Invalid entries are logged and left out; the reload only fails when the
// file cannot be read or no entry at all is usable.
func (dr *DefinitionsReloader) Reload(_ context.Context, force bool) error {
	sum, err := dr.loader.Checksum()
	if err != nil {
		return fmt.Errorf("failed to read indexer definitions: %w", err)
	}
	if !force && sum == dr.index.Checksum() {
		dr.logger.Debug("indexer definitions unchanged")
		return nil
	}

	dr.logger.Info("reloading indexer definitions",
		logger.String("file", dr.loader.Path()))

	file, err := dr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load indexer definitions: %w", err)
	}

	defs, err := dr.mapper.MapDefinitions(file)
	if err != nil {
		if len(defs) == 0 {
			return fmt.Errorf("failed to map indexer definitions: %w", err)
		}
		dr.logger.Warn("skipping invalid indexer definitions", logger.Error(err))
	}

	built, err := index.Build(defs)
	if err != nil {
		dr.logger.Warn("skipping indexers without a usable adapter", logger.Error(err))
	}

	for id, mapErr := range index.Incomplete(built) {
		dr.logger.Warn("category mapping incomplete, indexer will only serve uncategorized searches",
			logger.String("indexer", id),
			logger.Error(mapErr))
	}

	removed := dr.index.Replace(built, sum)
	for _, id := range removed {
		for _, f := range dr.forget {
			f.Forget(id)
		}
	}
	if len(removed) > 0 {
		dr.logger.Info("marking removed indexers as disabled",
			logger.Strings("indexers", removed))
	}

	dr.logger.Info("loaded indexer definitions",
		logger.Int("count", len(built)),
		logger.Int("removed", len(removed)))

	return nil
}
