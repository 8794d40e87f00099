package store

import (
	"context"
	"errors"
	"sync"

	"followstats/internal/platform/store/pg"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memRows serves fixed rows of values through the Rows and pgx.Rows shapes
type memRows struct {
	pgx.Rows // unused methods panic

	cols   []string
	data   [][]any
	i      int
	err    error
	closed bool
}

func (m *memRows) Next() bool {
	if m.i >= len(m.data) {
		return false
	}
	m.i++
	return true
}

func (m *memRows) Scan(dest ...any) error {
	row := m.data[m.i-1]
	if len(dest) != len(row) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			s, ok := row[i].(string)
			if !ok {
				return errors.New("scan: not a string")
			}
			*p = s
		case *int:
			n, ok := row[i].(int)
			if !ok {
				return errors.New("scan: not an int")
			}
			*p = n
		default:
			return errors.New("scan: unsupported dest")
		}
	}
	return nil
}

func (m *memRows) Err() error        { return m.err }
func (m *memRows) Close()            { m.closed = true }
func (m *memRows) Columns() []string { return m.cols }

func (m *memRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(m.cols))
	for i, c := range m.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

// memDB records statements and answers with canned results
type memDB struct {
	mu    sync.Mutex
	sqls  []string
	rows  *memRows
	row   scanFunc
	err   error
	tag   pgconn.CommandTag
	calls int
}

func (d *memDB) record(sql string) {
	d.mu.Lock()
	d.sqls = append(d.sqls, sql)
	d.calls++
	d.mu.Unlock()
}

func (d *memDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	d.record(sql)
	return d.tag, d.err
}

func (d *memDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	d.record(sql)
	if d.err != nil {
		return nil, d.err
	}
	return d.rows, nil
}

func (d *memDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	d.record(sql)
	if d.row == nil {
		return scanFunc(func(...any) error { return pgx.ErrNoRows })
	}
	return d.row
}

// querier lifts memDB to RowQuerier without tracing
func querier(d *memDB) RowQuerier { return traced{db: d} }

// memTx is a pgx.Tx over memDB
type memTx struct {
	pgx.Tx
	*memDB
	committed  bool
	rolledBack bool
	rbErr      error
}

func (t *memTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.memDB.Exec(ctx, sql, args...)
}

func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.memDB.Query(ctx, sql, args...)
}

func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.memDB.QueryRow(ctx, sql, args...)
}

func (t *memTx) Commit(context.Context) error { t.committed = true; return nil }

func (t *memTx) Rollback(context.Context) error {
	t.rolledBack = true
	return t.rbErr
}

// events collects tracer output
type events struct {
	mu  sync.Mutex
	got []pg.QueryEvent
}

func (e *events) OnQuery(_ context.Context, ev pg.QueryEvent) {
	e.mu.Lock()
	e.got = append(e.got, ev)
	e.mu.Unlock()
}

// pinger is a closable backend with a scripted ping
type pinger struct {
	err    error
	closed bool
}

func (p *pinger) Ping(context.Context) error { return p.err }
func (p *pinger) Close() error                { p.closed = true; return nil }

// fakeTxRunner satisfies TxRunner plus Pinger and Close
type fakeTxRunner struct {
	RowQuerier
	pinger
}

func (f *fakeTxRunner) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }

// chRowsFake is a driver.Rows over fixed data
type chRowsFake struct {
	driver.Rows
	m        *memRows
	closeErr error
}

func (c *chRowsFake) Next() bool             { return c.m.Next() }
func (c *chRowsFake) Scan(dest ...any) error { return c.m.Scan(dest...) }
func (c *chRowsFake) Err() error             { return c.m.Err() }
func (c *chRowsFake) Columns() []string      { return c.m.Columns() }
func (c *chRowsFake) Close() error           { c.m.Close(); return c.closeErr }

// fakeCH records calls made through the clickhouse adapter
type fakeCH struct {
	pinger
	inserted [][]any
	table    string
	columns  []string
	execs    []string
	rows     *chRowsFake
	queryErr error
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.columns = table, columns
	f.inserted = append(f.inserted, rows...)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (driver.Rows, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}
