package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persistence contract shared by the session and bookmark
// stores: string-keyed JSON blobs, read and written whole.
//
// The logical keys and their JSON shapes (see keys.go) must be preserved
// regardless of the backend so stored state survives a backend swap.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
