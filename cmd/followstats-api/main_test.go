package main

import (
	"testing"

	"followstats/internal/platform/config"
	kit "followstats/internal/platform/testkit"
)

func TestStoreConfig(t *testing.T) {
	root := config.New().Prefix("MAIN_TEST_")
	t.Setenv("MAIN_TEST_PG_DBURL", "postgres://localhost/followstats")
	t.Setenv("MAIN_TEST_PG_MAX_CONNS", "8")
	t.Setenv("MAIN_TEST_REDIS_ENABLED", "true")

	got := storeConfig(root.Prefix("PG_"), root.Prefix("CH_"), root.Prefix("REDIS_"), root.Prefix("MEM_"))
	if !got.PG.Enabled || got.PG.URL != "postgres://localhost/followstats" || got.PG.MaxConns != 8 {
		t.Fatalf("pg = %+v", got.PG)
	}
	if got.CH.Enabled {
		t.Fatalf("clickhouse should default off")
	}
	if !got.KV.RedisEnabled || got.KV.MemorySize != 1024 || got.AppName != "followstats-api" {
		t.Fatalf("config = %+v", got)
	}

	kit.MustPanic(t, func() {
		storeConfig(root.Prefix("NOPE_"), root.Prefix("CH_"), root.Prefix("REDIS_"), root.Prefix("MEM_"))
	})
}

func TestCacheOptions(t *testing.T) {
	cfg := config.New().Prefix("MAIN_CACHE_")
	if n := len(cacheOptions(cfg)); n != 2 {
		t.Fatalf("default options = %d, want ttl and singleflight", n)
	}
	t.Setenv("MAIN_CACHE_SINGLEFLIGHT", "false")
	t.Setenv("MAIN_CACHE_CACHE_TTL", "60")
	if n := len(cacheOptions(cfg)); n != 1 {
		t.Fatalf("options = %d", n)
	}
}

func TestProfileSource_DisabledWithoutBaseURL(t *testing.T) {
	cfg := config.New().Prefix("MAIN_PROFILES_")
	if src := profileSource(cfg, nil); src != nil {
		t.Fatalf("source = %#v, want untyped nil", src)
	}
	t.Setenv("MAIN_PROFILES_BASE_URL", "https://profiles.internal")
	if profileSource(cfg, nil) == nil {
		t.Fatalf("base url should enable the source")
	}
}
