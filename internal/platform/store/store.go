// Package store opens and owns the storage backends: postgres for users and
// samples, optional clickhouse for samples, and a key value store for the
// response cache
package store

import (
	"context"
	"errors"
	"fmt"

	"followstats/internal/platform/logger"
	"followstats/internal/platform/store/kv"
)

// Store holds the opened backends. A nil field means the backend is disabled.
type Store struct {
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
	KV kv.Store
}

// Row is a single row scan
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports the outcome of a write
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside a transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar surface. Insert rows list values in columns order.
type Clickhouse interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Open opens every backend enabled in cfg. The key value store is always
// present: redis when enabled, otherwise an in process LRU.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: logger.Get().With().Logger()}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg.AppName, cfg.PG, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg.AppName, cfg.CH)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = c
	}
	if s.KV == nil {
		k, err := openKV(ctx, cfg.KV, s.Log)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.KV = k
	}
	return s, nil
}

// Guard pings every backend that can be pinged and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	backends := []struct {
		name string
		v    any
	}{{"pg", s.PG}, {"ch", s.CH}, {"kv", s.KV}}
	var errs []error
	for _, b := range backends {
		p, ok := b.v.(Pinger)
		if !ok {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every opened backend
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.KV.(kv.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
