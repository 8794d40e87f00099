package repo

import (
	"context"

	"followstats/internal/modkit/repokit"
	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/store"
)

// PGSchema creates the relational tables. Statements are idempotent.
var PGSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
    user_id   BIGSERIAL PRIMARY KEY,
    username  TEXT NOT NULL UNIQUE,
    avatar    TEXT,
    banner    TEXT,
    bio       TEXT,
    location  TEXT,
    website   TEXT,
    joined_at TIMESTAMPTZ
)`,
	`CREATE TABLE IF NOT EXISTS stats (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    followers  INT NOT NULL,
    following  INT NOT NULL,
    tweets     INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS stats_user_created_idx ON stats (user_id, created_at DESC)`,
}

// CHSchema creates the columnar sample table
var CHSchema = []string{
	`CREATE DATABASE IF NOT EXISTS followstats`,
	`CREATE TABLE IF NOT EXISTS followstats.stats (
    user_id    UInt64,
    followers  UInt32,
    following  UInt32,
    tweets     UInt32,
    created_at DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (user_id, created_at)`,
}

// EnsureSchema applies PGSchema inside one tx and CHSchema when ch is set
func EnsureSchema(ctx context.Context, db repokit.TxRunner, ch store.Clickhouse) error {
	err := db.Tx(ctx, func(q repokit.Queryer) error {
		for _, stmt := range PGSchema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return perr.FromPostgres(err, "users: pg schema")
	}
	if ch == nil {
		return nil
	}
	for _, stmt := range CHSchema {
		if err := ch.Exec(ctx, stmt); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "users: ch schema")
		}
	}
	return nil
}
