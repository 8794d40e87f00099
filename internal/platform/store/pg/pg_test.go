package pg

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	kit "followstats/internal/platform/testkit"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestOpen_PoolError(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("boom")
	})
	if _, err := Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db"}, nil, nil); err == nil {
		t.Fatalf("expected pool error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	kit.Serial(t)
	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return &pgxpool.Pool{}, nil
	})

	cfg := Config{URL: "postgres://u:p@h:5432/db", MaxConns: 7, SlowMs: 250, AppName: "followstats"}
	mutated := false
	p, err := Open(context.Background(), cfg, nil, func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatal(err)
	}
	if !mutated || seen.MaxConns != 7 || p.SlowMs != 250 {
		t.Fatalf("config not applied: mutated=%v max=%d slow=%d", mutated, seen.MaxConns, p.SlowMs)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "followstats" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestOpen_DSNAppNameWins(t *testing.T) {
	kit.Serial(t)
	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return &pgxpool.Pool{}, nil
	})
	_, _ = Open(context.Background(), Config{URL: "postgres://u:p@h:5432/db?application_name=ops", AppName: "followstats"}, nil, nil)
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "ops" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

func TestCompact(t *testing.T) {
	cases := map[string]string{
		"select 1": "select 1",
		"  SELECT\t*\nFROM\r\n stats  WHERE user_id = $1 ": "SELECT * FROM stats WHERE user_id = $1",
		"": "",
	}
	for in, want := range cases {
		if got := compact(in); got != want {
			t.Errorf("compact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel))
	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "rid-3")

	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT\n 1", ElapsedUS: 1500})
	tr.OnQuery(ctx, QueryEvent{SQL: "SELECT pg_sleep(1)", Slow: true})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELEC", Err: errors.New("syntax error")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines regardless of root level, got %d: %s", len(lines), buf.String())
	}
	for i, want := range []string{`"level":"info"`, `"level":"warn"`, `"level":"error"`} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d = %s, want %s", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[0], `"sql":"SELECT 1"`) || !strings.Contains(lines[0], `"request_id":"rid-3"`) {
		t.Fatalf("first line = %s", lines[0])
	}
	if !strings.Contains(lines[0], `"elapsed_ms":1.5`) {
		t.Fatalf("elapsed not reported: %s", lines[0])
	}
}
