// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// Cache defines the interface for key/value storage with expiry.
// Drafts are stored through it, so any backend (memory, Redis, SQLite) can hold them.
//
// Example usage:
//
//	// Store a draft for two days
//	err := cache.Set(ctx, "draft:owner-1", payload, 48*time.Hour)
//
//	// Retrieve it
//	data, err := cache.Get(ctx, "draft:owner-1")
//	if err != nil {
//		// handle error or cache miss
//	}
//
//	// Remove it after the site is saved
//	err = cache.Delete(ctx, "draft:owner-1")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")
