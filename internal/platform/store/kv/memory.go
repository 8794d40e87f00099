package kv

import (
	"context"
	"time"

	perr "followstats/internal/platform/errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize bounds the in process store when no size is configured
const DefaultMemorySize = 4096

type entry struct {
	value   string
	expires time.Time // zero means never
}

// Memory is an in process Store for single instance deployments and tests.
// Least recently used keys are evicted once size is reached; expired keys
// are dropped lazily on read.
type Memory struct {
	cache *lru.Cache[string, entry]
	now   func() time.Time
}

var _ Store = (*Memory)(nil)

// NewMemory returns a Memory holding at most size keys
func NewMemory(size int) (*Memory, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	c, err := lru.New[string, entry](size)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeCache, "kv: new lru")
	}
	return &Memory{cache: c, now: time.Now}, nil
}

// Get returns the value at key unless it has expired
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := m.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.cache.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Put stores value, replacing any previous entry and its expiry
func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.cache.Add(key, e)
	return nil
}

// Delete removes key
func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Remove(key)
	return nil
}

// Len reports the number of stored keys, expired ones included
func (m *Memory) Len() int { return m.cache.Len() }
