package repo

import (
	"context"
	"time"

	"followstats/internal/core/stats"
	"followstats/internal/modkit/repokit"
	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/store"
)

// NewHybrid returns a binder that keeps users in Postgres and reads and
// writes samples in ClickHouse
func NewHybrid(ch store.Clickhouse) repokit.Binder[Repo] {
	if ch == nil {
		panic("users/repo: nil clickhouse")
	}
	return hybridBinder{ch: ch}
}

type hybridBinder struct{ ch store.Clickhouse }

func (b hybridBinder) Bind(q repokit.Queryer) Repo {
	return &hybrid{queries: &queries{q: repokit.RequireQueryer(q)}, ch: b.ch}
}

type hybrid struct {
	*queries
	ch store.Clickhouse
}

var sampleColumns = []string{"user_id", "followers", "following", "tweets", "created_at"}

func (h *hybrid) Samples(ctx context.Context, userID int64) ([]stats.Sample, error) {
	const sql = `
SELECT user_id, followers, following, tweets, created_at
FROM followstats.stats
WHERE user_id = ?`
	return h.query(ctx, "users: ch samples", sql, userID)
}

func (h *hybrid) RecentSamples(ctx context.Context, userID int64, limit int) ([]stats.Sample, error) {
	const sql = `
SELECT user_id, followers, following, tweets, created_at
FROM followstats.stats
WHERE user_id = ?
ORDER BY created_at DESC
LIMIT ?`
	return h.query(ctx, "users: ch recent samples", sql, userID, clampLimit(limit))
}

func (h *hybrid) RecordSample(ctx context.Context, s stats.Sample) error {
	row := []any{s.SubjectID, s.Followers, s.Following, s.Tweets, s.CapturedAt.UTC()}
	if err := h.ch.Insert(ctx, "followstats.stats", sampleColumns, [][]any{row}); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "users: ch record sample")
	}
	return nil
}

// ClickHouse returns UInt64 and UInt32 columns, so scan into those and widen
func (h *hybrid) query(ctx context.Context, op, sql string, args ...any) ([]stats.Sample, error) {
	rows, err := h.ch.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, op)
	}
	defer rows.Close()

	out := []stats.Sample{}
	for rows.Next() {
		var (
			id                          uint64
			followers, following, tweet uint32
			at                          time.Time
		)
		if err := rows.Scan(&id, &followers, &following, &tweet, &at); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, op)
		}
		out = append(out, stats.Sample{
			SubjectID:  int64(id),
			CapturedAt: at,
			Counts:     stats.Counts{Followers: int64(followers), Following: int64(following), Tweets: int64(tweet)},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, op)
	}
	return out, nil
}
