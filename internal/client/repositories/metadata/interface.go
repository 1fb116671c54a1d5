// Package metadata implements a small key/value repository on the local
// database. It backs the credential store (access/refresh token pair) and the
// per-user active-property pointer.
package metadata

import "context"

// Repository describes key/value operations for opaque metadata values.
type Repository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key.
	Clear(ctx context.Context) error
}
