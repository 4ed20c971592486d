package store

import "context"

// Store is the durable string-keyed persistence capability the repositories
// depend on. Read misses are reported through the ok return, not an error.
type Store interface {
	// Get returns the value for key, with ok = false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes or overwrites the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
