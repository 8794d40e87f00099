package store

import (
	"context"
	"time"

	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"
	chx "followstats/internal/platform/store/ch"
	"followstats/internal/platform/store/kv"
	"followstats/internal/platform/store/pg"
)

// seams
var (
	pgOpen = pg.Open
	pgPing = func(ctx context.Context, p *pg.PG) error { return p.Pool.Ping(ctx) }
	sleep  = time.Sleep
)

// openPG opens the pool and pings it with capped exponential backoff until
// it answers, so the API can start alongside its database
func openPG(ctx context.Context, app string, cfg PGConfig, log logger.Logger) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pgOpen(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, SlowMs: cfg.SlowQueryMs, AppName: app}, tracer, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "pg: open")
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	var lastErr error
	backoff := 150 * time.Millisecond
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = pgPing(pctx, p)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "pg: open canceled")
		}
		log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("pg not ready")
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	p.Close()
	return nil, perr.Wrapf(lastErr, perr.ErrorCodeUnavailable, "pg: no ping after %d attempts", attempts)
}

func openCH(ctx context.Context, app string, cfg CHConfig) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.URL, Role: "api", Tag: app})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openKV(ctx context.Context, cfg KVConfig, log logger.Logger) (kv.Store, error) {
	if cfg.RedisEnabled {
		r, err := kv.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("kv: redis")
		return r, nil
	}
	log.Info().Int("size", cfg.MemorySize).Msg("kv: in process lru")
	return kv.NewMemory(cfg.MemorySize)
}
