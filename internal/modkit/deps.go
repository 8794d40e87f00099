// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"followstats/internal/modkit/repokit"
	"followstats/internal/platform/cache"
	"followstats/internal/platform/config"
	"followstats/internal/platform/logger"
	"followstats/internal/platform/store"
	"followstats/internal/platform/store/kv"
)

// Deps holds the handles modules share. Nil stores mean the backend is
// disabled; modules check before use.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	PG repokit.TxRunner
	CH store.Clickhouse
	KV kv.Store

	// Cache fronts expensive reads with KV using the process wide policy
	Cache *cache.Memo

	// Loc is the reference location for hour and day boundaries
	Loc *time.Location
	Now func() time.Time
}

// Location returns Loc, UTC when unset
func (d Deps) Location() *time.Location {
	if d.Loc == nil {
		return time.UTC
	}
	return d.Loc
}

// Clock returns Now, time.Now when unset
func (d Deps) Clock() func() time.Time {
	if d.Now == nil {
		return time.Now
	}
	return d.Now
}

// Memo returns Cache, or a Memo over KV with default options when only the
// store was given. Nil when neither is set.
func (d Deps) Memo() *cache.Memo {
	switch {
	case d.Cache != nil:
		return d.Cache
	case d.KV != nil:
		return cache.NewMemo(d.KV)
	}
	return nil
}
