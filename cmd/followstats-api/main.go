// @title         Followstats API
// @version       0.1.0
// @description   Follower, following and tweet trends of tracked accounts

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"followstats/internal/adapters/profiles"
	"followstats/internal/core/version"
	"followstats/internal/modkit/repokit"
	"followstats/internal/platform/cache"
	"followstats/internal/platform/config"
	"followstats/internal/platform/logger"
	phttp "followstats/internal/platform/net/http"
	"followstats/internal/platform/store"

	"followstats/internal/services/api"
	usersdomain "followstats/internal/services/api/users/domain"
	usersrepo "followstats/internal/services/api/users/repo"
	usersservice "followstats/internal/services/api/users/service"

	"golang.org/x/sync/singleflight"
)

func main() {
	// service scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	redisCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, storeConfig(pgCfg, chCfg, redisCfg, root.Prefix("SERVICE_MEMCACHE_")), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if apiCfg.MayBool("MIGRATE", false) {
		if err := usersrepo.EnsureSchema(ctx, st.PG, st.CH); err != nil {
			l.Panic().Err(err).Msg("schema migration failed")
		}
		l.Info().Msg("schema ensured")
	}

	memo := cache.NewMemo(st.KV, cacheOptions(apiCfg)...)

	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		Cache:          memo,
		Source:         profileSource(root.Prefix("SERVICE_PROFILES_"), memo),
		Loc:            apiCfg.MayLocation("TZ", time.UTC),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	l.Info().Str("service", version.Service).Str("version", version.Info().Version).Msg("starting")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// profileSource returns nil unless SERVICE_PROFILES_BASE_URL is set, which
// leaves POST /users/{username} answering 503
func profileSource(cfg config.Conf, memo *cache.Memo) usersdomain.ProfileSource {
	src := profiles.FromConfig(cfg, usersservice.NewExpander(nil, memo))
	if src == nil {
		return nil
	}
	return src
}

func storeConfig(pg, ch, redis, mem config.Conf) store.Config {
	return store.Config{
		AppName: version.Service,
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: ch.MayBool("ENABLED", false),
			URL:     ch.MayString("DBURL", ""),
		},
		KV: store.KVConfig{
			RedisEnabled: redis.MayBool("ENABLED", false),
			RedisURL:     redis.MayString("URL", "redis://localhost:6379/0"),
			MemorySize:   mem.MayInt("SIZE", 1024),
		},
	}
}

func cacheOptions(cfg config.Conf) []cache.Option {
	opts := []cache.Option{cache.WithTTL(cfg.MayDuration("CACHE_TTL", cache.DefaultTTL))}
	if cfg.MayBool("SINGLEFLIGHT", true) {
		opts = append(opts, cache.WithSingleflight(new(singleflight.Group)))
	}
	return opts
}
