// Package db defines the snapshot storage facade. Keys are opaque to callers:
// the file backend treats them as paths, the Redis backend as key suffixes.
package db

import "context"

// Store is the main storage facade combining all sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Close()
}

// Pinger checks storage availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore stores whole snapshot blobs by key.
type KVStore interface {
	// Get returns ErrKeyNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value at key.
	Set(ctx context.Context, key string, value []byte) error
	// Del removes key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error
}
