package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/degyhq/degy/internal/domain"
)

// DefaultCatalogTTL bounds how long a mirrored destination outlives the
// catalog file it came from.
const DefaultCatalogTTL = 48 * time.Hour

// CatalogMirror mirrors the destination catalog into Redis so a restart
// can warm its index without re-reading the catalog file.
type CatalogMirror struct {
	client *redis.Client
}

// NewCatalogMirror creates a catalog mirror over the given Redis client.
func NewCatalogMirror(client *redis.Client) *CatalogMirror {
	return &CatalogMirror{client: client}
}

// SaveDestination stores one destination in the mirror.
func (m *CatalogMirror) SaveDestination(ctx context.Context, dest *domain.Destination) error {
	data, err := json.Marshal(dest)
	if err != nil {
		return fmt.Errorf("failed to marshal destination: %w", err)
	}

	key := DestinationKey(dest.ID)

	if err := m.client.Set(ctx, key, data, DefaultCatalogTTL).Err(); err != nil {
		return fmt.Errorf("failed to save destination: %w", err)
	}

	if err := m.client.SAdd(ctx, KeyAllDestinations, dest.ID).Err(); err != nil {
		return fmt.Errorf("failed to add destination to set: %w", err)
	}

	return nil
}

// GetDestination retrieves a destination from the mirror by ID.
func (m *CatalogMirror) GetDestination(ctx context.Context, id int) (*domain.Destination, error) {
	key := DestinationKey(id)
	data, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("destination not found: %d", id)
		}
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	var dest domain.Destination
	if err := json.Unmarshal(data, &dest); err != nil {
		return nil, fmt.Errorf("failed to unmarshal destination: %w", err)
	}

	return &dest, nil
}

// GetAllDestinations retrieves every mirrored destination.
func (m *CatalogMirror) GetAllDestinations(ctx context.Context) ([]*domain.Destination, error) {
	ids, err := m.client.SMembers(ctx, KeyAllDestinations).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get destination IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Destination{}, nil
	}

	dests := make([]*domain.Destination, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		dest, err := m.GetDestination(ctx, id)
		if err != nil {
			// Skip entries whose blob expired before the set member
			continue
		}
		dests = append(dests, dest)
	}

	return dests, nil
}

// DeleteDestination removes a destination from the mirror.
func (m *CatalogMirror) DeleteDestination(ctx context.Context, id int) error {
	if err := m.client.Del(ctx, DestinationKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete destination: %w", err)
	}

	if err := m.client.SRem(ctx, KeyAllDestinations, id).Err(); err != nil {
		return fmt.Errorf("failed to remove destination from set: %w", err)
	}

	return nil
}

// SaveDestinationsMany stores multiple destinations in one round trip.
func (m *CatalogMirror) SaveDestinationsMany(ctx context.Context, dests []*domain.Destination) error {
	pipe := m.client.Pipeline()

	for _, dest := range dests {
		data, err := json.Marshal(dest)
		if err != nil {
			return fmt.Errorf("failed to marshal destination %d: %w", dest.ID, err)
		}

		pipe.Set(ctx, DestinationKey(dest.ID), data, DefaultCatalogTTL)
		pipe.SAdd(ctx, KeyAllDestinations, dest.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save destinations: %w", err)
	}

	return nil
}
