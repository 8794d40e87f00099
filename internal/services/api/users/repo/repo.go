// Package repo provides storage access for tracked users and their samples
package repo

import (
	"context"
	"time"

	"followstats/internal/core/stats"
	"followstats/internal/modkit/repokit"
	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/store"
	pstrings "followstats/internal/platform/strings"
	"followstats/internal/services/api/users/domain"
)

// Repo is the read and write contract of the users module
type Repo interface {
	// UserID resolves a handle. ok is false for unknown handles.
	UserID(ctx context.Context, username string) (id int64, ok bool, err error)
	// Profile returns nil for unknown ids
	Profile(ctx context.Context, userID int64) (*domain.Profile, error)
	// Samples returns every sample of a user in no particular order
	Samples(ctx context.Context, userID int64) ([]stats.Sample, error)
	Users(ctx context.Context) ([]domain.UserRef, error)
	// RecentSamples returns at most limit samples, newest first
	RecentSamples(ctx context.Context, userID int64, limit int) ([]stats.Sample, error)

	// UpsertUser inserts or refreshes a profile by username
	UpsertUser(ctx context.Context, p domain.Profile) (id int64, created bool, err error)
	RecordSample(ctx context.Context, s stats.Sample) error
}

type (
	// PG implements Repo on Postgres alone
	PG struct{}

	queries struct{ q repokit.Queryer }
)

// NewPG returns the Postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds q, either the pool or an open tx
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: repokit.RequireQueryer(q)} }

func (r *queries) UserID(ctx context.Context, username string) (int64, bool, error) {
	const sql = `SELECT user_id FROM users WHERE username = $1`
	id, err := store.Scalar[int64](ctx, r.q, sql, username)
	if perr.IsNoRows(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, perr.FromPostgres(err, "users: user id")
	}
	return id, true, nil
}

func (r *queries) Profile(ctx context.Context, userID int64) (*domain.Profile, error) {
	const sql = `
SELECT user_id, username,
       COALESCE(avatar, ''), COALESCE(banner, ''), COALESCE(bio, ''),
       COALESCE(location, ''), COALESCE(website, ''), joined_at
FROM users
WHERE user_id = $1`
	p, err := store.One(ctx, r.q, scanProfile, sql, userID)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, perr.FromPostgres(err, "users: profile")
	}
	return &p, nil
}

func (r *queries) Samples(ctx context.Context, userID int64) ([]stats.Sample, error) {
	const sql = `
SELECT user_id, followers, following, tweets, created_at
FROM stats
WHERE user_id = $1`
	out, err := store.Many(ctx, r.q, scanSample, sql, userID)
	return out, perr.FromPostgres(err, "users: samples")
}

func (r *queries) Users(ctx context.Context) ([]domain.UserRef, error) {
	const sql = `SELECT user_id, username FROM users ORDER BY user_id`
	out, err := store.Many(ctx, r.q, func(row store.Row) (domain.UserRef, error) {
		var u domain.UserRef
		err := row.Scan(&u.UserID, &u.Username)
		return u, err
	}, sql)
	return out, perr.FromPostgres(err, "users: list")
}

func (r *queries) RecentSamples(ctx context.Context, userID int64, limit int) ([]stats.Sample, error) {
	const sql = `
SELECT user_id, followers, following, tweets, created_at
FROM stats
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`
	out, err := store.Many(ctx, r.q, scanSample, sql, userID, clampLimit(limit))
	return out, perr.FromPostgres(err, "users: recent samples")
}

func (r *queries) UpsertUser(ctx context.Context, p domain.Profile) (int64, bool, error) {
	// xmax is 0 only for rows this statement inserted
	const sql = `
INSERT INTO users (username, avatar, banner, bio, location, website, joined_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (username) DO UPDATE SET
    avatar    = EXCLUDED.avatar,
    banner    = EXCLUDED.banner,
    bio       = EXCLUDED.bio,
    location  = EXCLUDED.location,
    website   = EXCLUDED.website,
    joined_at = COALESCE(EXCLUDED.joined_at, users.joined_at)
RETURNING user_id, (xmax = 0)`
	var (
		id      int64
		created bool
	)
	err := r.q.QueryRow(ctx, sql,
		p.Username,
		pstrings.SQLNull(p.Avatar), pstrings.SQLNull(p.Banner), pstrings.SQLNull(p.Bio),
		pstrings.SQLNull(p.Location), pstrings.SQLNull(p.Website),
		p.JoinedAt,
	).Scan(&id, &created)
	if err != nil {
		return 0, false, perr.FromPostgres(err, "users: upsert")
	}
	return id, created, nil
}

func (r *queries) RecordSample(ctx context.Context, s stats.Sample) error {
	const sql = `
INSERT INTO stats (user_id, followers, following, tweets, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, sql, s.SubjectID, s.Followers, s.Following, s.Tweets, s.CapturedAt.UTC())
	return perr.FromPostgres(err, "users: record sample")
}

func scanProfile(row store.Row) (domain.Profile, error) {
	var (
		p      domain.Profile
		joined *time.Time
	)
	err := row.Scan(&p.UserID, &p.Username, &p.Avatar, &p.Banner, &p.Bio, &p.Location, &p.Website, &joined)
	p.JoinedAt = joined
	return p, err
}

func scanSample(row store.Row) (stats.Sample, error) {
	var s stats.Sample
	err := row.Scan(&s.SubjectID, &s.Followers, &s.Following, &s.Tweets, &s.CapturedAt)
	return s, err
}

// MaxRecent caps RecentSamples
const MaxRecent = 1000

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return 100
	case n > MaxRecent:
		return MaxRecent
	}
	return n
}
