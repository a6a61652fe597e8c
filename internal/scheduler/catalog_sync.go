package scheduler

import (
	"context"

	"github.com/degyhq/degy/internal/index"
	"github.com/degyhq/degy/internal/logger"
	"github.com/degyhq/degy/internal/storage"
)

// CatalogSyncer warms the memory index from the Redis mirror on startup,
// so the catalog is servable before the file is read.
type CatalogSyncer struct {
	mirror *storage.CatalogMirror
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewCatalogSyncer creates a new catalog syncer
func NewCatalogSyncer(
	mirror *storage.CatalogMirror,
	idx *index.MemoryIndex,
	log logger.Logger,
) *CatalogSyncer {
	return &CatalogSyncer{
		mirror: mirror,
		index:  idx,
		logger: log,
	}
}

// Sync loads destinations from the mirror and updates the memory index
func (cs *CatalogSyncer) Sync(ctx context.Context) error {
	cs.logger.Info("syncing catalog from redis to memory")

	dests, err := cs.mirror.GetAllDestinations(ctx)
	if err != nil {
		return err
	}

	if len(dests) == 0 {
		cs.logger.Info("no mirrored destinations found in redis")
		return nil
	}

	cs.index.UpdateDestinations(dests)

	cs.logger.Info("synced catalog from redis",
		logger.Int("count", len(dests)))

	return nil
}
