// Package ch is a thin clickhouse-go client used as an optional columnar
// backend for raw samples
package ch

import (
	"context"
	"fmt"
	"strings"

	perr "followstats/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the client
type Config struct {
	// URL is a clickhouse DSN, e.g. clickhouse://default:@localhost:9000/followstats
	URL string
	// Role and Tag are reported to the server in client info
	Role string
	Tag  string
}

// CH wraps a native protocol connection
type CH struct {
	conn driver.Conn
}

var openConn = func(opts *clickhouse.Options) (driver.Conn, error) { return clickhouse.Open(opts) }

// Open parses cfg.URL, connects and pings
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "ch: parse dsn")
	}
	opts.ClientInfo = BuildClientInfo(cfg.Role, cfg.Tag)

	conn, err := openConn(opts)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "ch: open")
	}
	c := &CH{conn: conn}
	if err := c.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// Insert appends rows to table in one batch. Each row lists values in
// columns order. An empty rows slice is a no op.
func (c *CH) Insert(ctx context.Context, table string, columns []string, rows [][]any) (err error) {
	if len(rows) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES", table, strings.Join(columns, ", "))
	batch, err := c.conn.PrepareBatch(ctx, q)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ch: prepare %s", table)
	}
	defer func() {
		if err != nil {
			_ = batch.Abort()
		}
	}()
	for _, row := range rows {
		if err = batch.Append(row...); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "ch: append %s", table)
		}
	}
	if err = batch.Send(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ch: send %s", table)
	}
	return nil
}

// Query runs a select
func (c *CH) Query(ctx context.Context, sql string, args ...any) (driver.Rows, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "ch: query")
	}
	return rows, nil
}

// Exec runs a statement without results, used for schema setup
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	if err := c.conn.Exec(ctx, sql, args...); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "ch: exec")
	}
	return nil
}

// Ping checks the connection
func (c *CH) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "ch: ping")
	}
	return nil
}

// Close closes the connection
func (c *CH) Close() error { return c.conn.Close() }
