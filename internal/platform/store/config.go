package store

import "time"

// Config aggregates per backend settings
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
	KV KVConfig
}

// PGConfig configures postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds the startup ping loop, default 20
	ConnectRetries int
	// PingTimeout bounds each startup ping, default 3s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse
type CHConfig struct {
	Enabled bool
	URL     string
}

// KVConfig selects the cache backend
type KVConfig struct {
	RedisEnabled bool
	RedisURL     string
	// MemorySize caps the in process fallback
	MemorySize int
}
