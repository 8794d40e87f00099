package repo

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"followstats/internal/modkit/repokit"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// call is one recorded statement
type call struct {
	sql  string
	args []any
}

// answer is a canned result: rows for Query, the first row for QueryRow
type answer struct {
	rows [][]any
	err  error
}

// scripted answers statements by the first registered substring they contain
type scripted struct {
	calls   []call
	answers []struct {
		match string
		answer
	}
}

func (s *scripted) on(match string, a answer) *scripted {
	s.answers = append(s.answers, struct {
		match string
		answer
	}{match, a})
	return s
}

func (s *scripted) find(sql string, args []any) answer {
	s.calls = append(s.calls, call{sql: sql, args: args})
	for _, a := range s.answers {
		if strings.Contains(sql, a.match) {
			return a.answer
		}
	}
	return answer{}
}

func (s *scripted) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	a := s.find(sql, args)
	return pgconn.NewCommandTag("OK"), a.err
}

func (s *scripted) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	a := s.find(sql, args)
	if a.err != nil {
		return nil, a.err
	}
	return &rows{data: a.rows}, nil
}

func (s *scripted) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	a := s.find(sql, args)
	if a.err != nil {
		return rowFunc(func(...any) error { return a.err })
	}
	if len(a.rows) == 0 {
		return rowFunc(func(...any) error { return pgx.ErrNoRows })
	}
	return rowFunc(func(dest ...any) error { return assign(a.rows[0], dest) })
}

func (s *scripted) Tx(_ context.Context, fn func(q repokit.Queryer) error) error { return fn(s) }

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

type rows struct {
	data [][]any
	i    int
}

func (r *rows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *rows) Scan(dest ...any) error { return assign(r.data[r.i-1], dest) }
func (r *rows) Err() error             { return nil }
func (r *rows) Close()                 {}
func (r *rows) Columns() []string      { return nil }

// assign copies values into pointers of the same type. A nil value zeroes
// the destination.
func assign(vals []any, dest []any) error {
	if len(vals) != len(dest) {
		return errors.New("scan: column count mismatch")
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if vals[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		v := reflect.ValueOf(vals[i])
		if !v.Type().AssignableTo(dv.Type()) {
			return errors.New("scan: " + v.Type().String() + " into " + dv.Type().String())
		}
		dv.Set(v)
	}
	return nil
}

// fakeCH records inserts and answers queries from rows
type fakeCH struct {
	inserted [][]any
	table    string
	columns  []string
	queries  []call
	execs    []string
	rows     [][]any
	err      error
}

func (f *fakeCH) Insert(_ context.Context, table string, columns []string, rows [][]any) error {
	f.table, f.columns = table, columns
	f.inserted = append(f.inserted, rows...)
	return f.err
}

func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	f.queries = append(f.queries, call{sql: sql, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return &rows{data: f.rows}, nil
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.err
}

func (f *fakeCH) Close() error { return nil }
