package store

import (
	"followstats/internal/platform/logger"
	"followstats/internal/platform/store/kv"
)

// Option mutates the Store during Open
type Option func(*Store) error

// WithLogger sets the logger handed to backends
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithKV injects a ready key value store and skips KVConfig
func WithKV(k kv.Store) Option {
	return func(s *Store) error {
		s.KV = k
		return nil
	}
}
