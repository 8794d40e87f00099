// Package kv is the string key value store behind the response cache. Values
// are opaque to it; callers serialise.
package kv

import (
	"context"
	"time"
)

// Store is the cache backend contract. A ttl of 0 stores without expiry.
// Get reports absence with ok=false and a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Closer is implemented by backends holding connections
type Closer interface{ Close() error }

// Pinger is implemented by remote backends
type Pinger interface{ Ping(ctx context.Context) error }
