package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"followstats/internal/core/stats"
	"followstats/internal/platform/cache"
	"followstats/internal/platform/store/kv"
	kit "followstats/internal/platform/testkit"
	usersdomain "followstats/internal/services/api/users/domain"

	"golang.org/x/text/language"
)

var now = time.Date(2024, 5, 10, 12, 30, 0, 0, time.UTC)

type fakeReader struct {
	users   []usersdomain.UserRef
	samples map[int64][]stats.Sample
	err     error
	delay   time.Duration

	usersCalls atomic.Int32
	inflight   atomic.Int32
	peak       atomic.Int32
	limits     sync.Map
}

func (f *fakeReader) Users(context.Context) ([]usersdomain.UserRef, error) {
	f.usersCalls.Add(1)
	return f.users, nil
}

func (f *fakeReader) RecentSamples(_ context.Context, id int64, limit int) ([]stats.Sample, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	f.limits.Store(id, limit)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return f.samples[id], nil
}

func s(t time.Time, followers, following, tweets int64) stats.Sample {
	return stats.Sample{CapturedAt: t, Counts: stats.Counts{Followers: followers, Following: following, Tweets: tweets}}
}

func yesterday(h int) time.Time { return time.Date(2024, 5, 9, h, 0, 0, 0, time.UTC) }
func today(h int) time.Time     { return time.Date(2024, 5, 10, h, 0, 0, 0, time.UTC) }

func reader() *fakeReader {
	return &fakeReader{
		users: []usersdomain.UserRef{{UserID: 1, Username: "jack"}, {UserID: 2, Username: "ev"}, {UserID: 3, Username: "biz"}},
		samples: map[int64][]stats.Sample{
			// newest first, as the store returns them
			1: {s(today(11), 1_250, 10, 100), s(today(9), 1_230, 10, 99), s(yesterday(23), 1_200, 12, 90), s(yesterday(10), 1_000, 12, 80)},
			2: {s(today(11), 5_000_000, 5, 7), s(yesterday(20), 4_998_500, 5, 7)},
			3: {s(yesterday(20), 10, 1, 1)},
		},
	}
}

func memo(t *testing.T) (*cache.Memo, *kv.Memory) {
	t.Helper()
	m, err := kv.NewMemory(8)
	if err != nil {
		t.Fatal(err)
	}
	return cache.NewMemo(m), m
}

func TestNew_RequiresReader(t *testing.T) {
	kit.MustPanic(t, func() { New(nil, Options{}) })
}

func TestBuild_RanksDayOverDay(t *testing.T) {
	r := reader()
	svc := New(r, Options{Now: func() time.Time { return now }})

	b, err := svc.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if b.Users != 3 || len(b.Rows) != 3 {
		t.Fatalf("board = %+v", b)
	}
	order := [3]string{b.Rows[0].Username, b.Rows[1].Username, b.Rows[2].Username}
	if order != [3]string{"ev", "jack", "biz"} {
		t.Fatalf("order = %v", order)
	}
	jack := b.Rows[1]
	if jack.Followers != 50 || jack.Following != -2 || jack.Tweets != 10 {
		t.Fatalf("jack = %+v", jack)
	}
	if b.Rows[2].Counts != (stats.Counts{}) {
		t.Fatalf("users without a sample today should be zero, got %+v", b.Rows[2])
	}
	if b.Totals != (stats.Counts{Followers: 1_550, Following: -2, Tweets: 10}) {
		t.Fatalf("totals = %+v", b.Totals)
	}
	if lim, _ := r.limits.Load(int64(1)); lim != DefaultSamples {
		t.Fatalf("limit = %v", lim)
	}
}

func TestBuild_FanoutIsBounded(t *testing.T) {
	r := &fakeReader{delay: 5 * time.Millisecond}
	for i := range 20 {
		r.users = append(r.users, usersdomain.UserRef{UserID: int64(i + 1)})
	}
	svc := New(r, Options{Fanout: 3})
	if _, err := svc.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p := r.peak.Load(); p > 3 || p < 1 {
		t.Fatalf("peak concurrency = %d", p)
	}
}

func TestBuild_ReaderErrorPropagates(t *testing.T) {
	r := reader()
	r.err = errors.New("pg down")
	if _, err := New(r, Options{}).Build(context.Background()); err == nil || err.Error() != "pg down" {
		t.Fatalf("err = %v", err)
	}
}

func TestSummary_CachedWithDisplay(t *testing.T) {
	m, store := memo(t)
	r := reader()
	svc := New(r, Options{Cache: m, Now: func() time.Time { return now }, Lang: language.German})

	got, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !got.NextScrape.Equal(time.Date(2024, 5, 10, 13, 0, 0, 0, time.UTC)) {
		t.Fatalf("next scrape = %v", got.NextScrape)
	}
	if got.Display.Rows[0].Followers != "+1.5K" || got.Display.Rows[1].Following != "-2" || got.Display.Rows[2].Tweets != "0" {
		t.Fatalf("display rows = %+v", got.Display.Rows)
	}
	if got.Display.Followers != "1.550" {
		t.Fatalf("grouped followers = %q", got.Display.Followers)
	}
	if _, ok, _ := store.Get(context.Background(), cache.HomeKey()); !ok {
		t.Fatalf("board should be cached under %s", cache.HomeKey())
	}

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatal(err)
	}
	if r.usersCalls.Load() != 1 {
		t.Fatalf("second summary should come from cache, users calls = %d", r.usersCalls.Load())
	}
}

func TestSummary_EmptyIsNotCached(t *testing.T) {
	m, store := memo(t)
	svc := New(&fakeReader{}, Options{Cache: m})

	got, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Rows == nil || len(got.Rows) != 0 || got.Users != 0 {
		t.Fatalf("summary = %+v", got)
	}
	if store.Len() != 0 {
		t.Fatalf("empty boards must not be cached")
	}
}
