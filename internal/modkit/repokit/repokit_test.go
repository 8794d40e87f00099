package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kit "followstats/internal/platform/testkit"
)

// recQ records statements
type recQ struct{ sqls []string }

func (r *recQ) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	r.sqls = append(r.sqls, sql)
	return nil, nil
}
func (r *recQ) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	r.sqls = append(r.sqls, sql)
	return nil, nil
}
func (r *recQ) QueryRow(_ context.Context, sql string, _ ...any) Row {
	r.sqls = append(r.sqls, sql)
	return nil
}

// recTx runs fn against its own recQ
type recTx struct {
	recQ
	tx recQ
}

func (r *recTx) Tx(_ context.Context, fn func(Queryer) error) error { return fn(&r.tx) }

type fakePinger struct {
	ctx context.Context
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { f.ctx = ctx; return f.err }

type fakeGuard struct{ err error }

func (f fakeGuard) Guard(context.Context) error { return f.err }

func TestMustBind(t *testing.T) {
	t.Parallel()
	b := BindFunc[int](func(Queryer) int { return 42 })
	if got := MustBind[int](b, &recQ{}); got != 42 {
		t.Fatalf("MustBind = %d", got)
	}
	kit.MustPanic(t, func() { _ = MustBind[int](b, nil) })
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	r := &recTx{}
	err := WithTx(context.Background(), r, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "UPDATE users SET bio = ''")
		return err
	})
	if err != nil || len(r.tx.sqls) != 1 || len(r.sqls) != 0 {
		t.Fatalf("err=%v tx=%v pool=%v", err, r.tx.sqls, r.sqls)
	}
}

func TestWithBeginHooks_RunsFirstInTx(t *testing.T) {
	t.Parallel()
	r := &recTx{}
	h := WithBeginHooks(r, StatementTimeout(5*time.Second))

	_ = h.Tx(context.Background(), func(q Queryer) error {
		_, err := q.Exec(context.Background(), "INSERT INTO users (username) VALUES ($1)")
		return err
	})
	if len(r.tx.sqls) != 2 || r.tx.sqls[0] != "SET LOCAL statement_timeout = 5000" {
		t.Fatalf("tx statements = %v", r.tx.sqls)
	}

	_, _ = h.Exec(context.Background(), "SELECT 1")
	_, _ = h.Query(context.Background(), "SELECT 2")
	_ = h.QueryRow(context.Background(), "SELECT 3")
	if len(r.sqls) != 3 {
		t.Fatalf("pool statements = %v", r.sqls)
	}
}

func TestWithBeginHooks_HookErrorAborts(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	ran := false
	h := WithBeginHooks(&recTx{}, func(context.Context, Queryer) error { return boom })
	err := h.Tx(context.Background(), func(Queryer) error { ran = true; return nil })
	if !errors.Is(err, boom) || ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
}

func TestMustPing(t *testing.T) {
	t.Parallel()
	kit.MustPanic(t, func() { MustPing(context.Background(), "pg", nil) })

	fp := &fakePinger{}
	start := time.Now()
	MustPing(context.Background(), "pg", fp)
	dl, ok := fp.ctx.Deadline()
	if !ok || dl.Sub(start) < 4*time.Second || dl.Sub(start) > 6*time.Second {
		t.Fatalf("default deadline = %v, %v", dl, ok)
	}

	parent, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	MustPing(parent, "pg", fp)
	want, _ := parent.Deadline()
	if got, _ := fp.ctx.Deadline(); !got.Equal(want) {
		t.Fatalf("parent deadline not kept: %v vs %v", got, want)
	}
}

func TestMustPing_PingError(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		if s, _ := r.(string); !strings.Contains(s, "kv ping failed: refused") {
			t.Fatalf("panic = %v", r)
		}
	}()
	MustPing(context.Background(), "kv", &fakePinger{err: errors.New("refused")})
}

func TestMustGuard(t *testing.T) {
	t.Parallel()
	kit.MustNotPanic(t, func() { MustGuard(context.Background(), fakeGuard{}) })
	kit.MustPanic(t, func() { MustGuard(context.Background(), fakeGuard{err: errors.New("ch: down")}) })
}
