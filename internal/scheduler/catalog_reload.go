package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/degyhq/degy/internal/domain"
	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/sources/catalog"
	"github.com/degyhq/degy/internal/storage"
)

// CatalogReloader handles periodic reloading of the destination catalog
type CatalogReloader struct {
	loader        *catalog.Loader
	mapper        *catalog.Mapper
	mirror        *storage.CatalogMirror
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader
func NewCatalogReloader(
	catalogFile string,
	mirror *storage.CatalogMirror,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalog.NewLoader(catalogFile),
		mapper:        catalog.NewMapper(),
		mirror:        mirror,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (cr *CatalogReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload loads the catalog file and updates index + mirror
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading destination catalog")

	file, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	dests, err := cr.mapper.MapDestinations(file)
	if err != nil {
		return fmt.Errorf("failed to map destinations: %w", err)
	}
	comments := cr.mapper.MapComments(file)

	cr.logger.Info("loaded destination catalog",
		logger.Int("destinations", len(dests)),
		logger.Int("comments", len(comments)))

	// Drop mirror entries for destinations removed from the file
	if cr.mirror != nil {
		cr.dropRemoved(ctx, dests)
	}

	// Memory index is the primary source
	cr.index.UpdateDestinations(dests)
	cr.index.UpdateComments(comments)

	// Update Redis mirror (best effort)
	if cr.mirror != nil {
		if err := cr.mirror.SaveDestinationsMany(ctx, dests); err != nil {
			cr.logger.Warn("failed to mirror catalog to redis",
				logger.Error(err))
		} else {
			cr.logger.Info("catalog mirrored to redis")
		}
	}

	return nil
}

// dropRemoved deletes mirror entries that are no longer in the file
func (cr *CatalogReloader) dropRemoved(ctx context.Context, dests []*domain.Destination) {
	next := make(map[int]bool, len(dests))
	for _, dest := range dests {
		next[dest.ID] = true
	}

	for _, existing := range cr.index.GetAllDestinations() {
		if next[existing.ID] {
			continue
		}
		if err := cr.mirror.DeleteDestination(ctx, existing.ID); err != nil {
			cr.logger.Warn("failed to drop removed destination from mirror",
				logger.Int("destination_id", existing.ID),
				logger.Error(err))
		}
	}
}
