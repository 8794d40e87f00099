// Package service implements the users workflows
package service

import (
	"context"
	"time"

	"followstats/internal/core/calendar"
	"followstats/internal/core/stats"
	"followstats/internal/modkit/repokit"
	"followstats/internal/platform/cache"
	perr "followstats/internal/platform/errors"
	"followstats/internal/platform/logger"
	pstrings "followstats/internal/platform/strings"
	"followstats/internal/services/api/users/domain"
	"followstats/internal/services/api/users/repo"
)

// Svc is the concrete domain.ServicePort
type Svc struct {
	db     repokit.TxRunner
	writer repokit.TxRunner
	binder repokit.Binder[repo.Repo]

	cache    *cache.Memo
	source   domain.ProfileSource
	expander domain.Expander
	loc      *time.Location
	now      func() time.Time
}

// Options control service behavior
type Options struct {
	// Cache is optional; without it every read hits the store
	Cache *cache.Memo

	// Source is optional; Add answers unavailable without it
	Source domain.ProfileSource

	// Expander is optional; when set, profile websites are stored expanded
	Expander domain.Expander

	Loc *time.Location
	Now func() time.Time

	// StatementTimeout bounds each statement of the add tx. Zero disables.
	StatementTimeout time.Duration
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("users.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("users.Service requires a non nil Repo binder")
	}
	s := &Svc{
		db:       db,
		writer:   db,
		binder:   binder,
		cache:    opt.Cache,
		source:   opt.Source,
		expander: opt.Expander,
		loc:      opt.Loc,
		now:      opt.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opt.StatementTimeout > 0 {
		s.writer = repokit.WithBeginHooks(db, repokit.StatementTimeout(opt.StatementTimeout))
	}
	return s
}

// User returns the profile and hourly diffed stats of a tracked account,
// served from cache when present. Unknown accounts yield nil.
func (s *Svc) User(ctx context.Context, username string) (*domain.UserStats, error) {
	handle := pstrings.Handle(username)
	compute := func(ctx context.Context) (*domain.UserStats, error) {
		return s.load(ctx, handle)
	}
	if s.cache == nil {
		return compute(ctx)
	}
	return cache.Get(ctx, s.cache, cache.UserKey(handle), compute)
}

func (s *Svc) load(ctx context.Context, handle string) (*domain.UserStats, error) {
	var out *domain.UserStats
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		id, ok, err := r.UserID(ctx, handle)
		if err != nil || !ok {
			return err
		}
		p, err := r.Profile(ctx, id)
		if err != nil || p == nil {
			return err
		}
		samples, err := r.Samples(ctx, id)
		if err != nil {
			return err
		}
		out = &domain.UserStats{Profile: *p, Stats: stats.Hourly(samples, s.loc)}
		return nil
	})
	return out, err
}

// Calendar lays the account's rolled up stats over a period grid
func (s *Svc) Calendar(ctx context.Context, username, period string, metric stats.Metric) (*domain.Calendar, error) {
	p, ok := calendar.Lookup(period)
	if !ok {
		return nil, perr.WithField(perr.InvalidArgf("unknown period %q, want one of %v", period, calendar.Names()), "period")
	}
	if !metric.Valid() {
		return nil, perr.WithField(perr.InvalidArgf("unknown metric %q, want one of %v", metric, stats.Metrics), "metric")
	}

	u, err := s.User(ctx, username)
	if err != nil || u == nil {
		return nil, err
	}

	slots := stats.Rollup(u.Stats, s.now(), p.Unit, p.Cells, s.loc)
	cells, err := calendar.Layout(p, slots)
	if err != nil {
		return nil, err
	}
	return &domain.Calendar{
		Username: u.Profile.Username,
		Period:   p,
		Metric:   metric,
		Cells:    cells,
		MaxDiff:  stats.MaxDiff(slots, metric),
	}, nil
}

// Add looks the account up upstream, upserts it with a first sample and
// drops the cached views it affects
func (s *Svc) Add(ctx context.Context, username string) (domain.AddResult, error) {
	var res domain.AddResult
	if s.source == nil {
		return res, perr.Unavailablef("users: no profile source configured")
	}
	handle := pstrings.Handle(username)

	snap, err := s.source.Lookup(ctx, handle)
	if err != nil {
		return res, perr.Wrap(err, perr.ErrorCodeUnavailable, "users: profile source")
	}
	if snap == nil {
		return res, perr.WithField(perr.NotFoundf("users: %s does not exist", handle), "username")
	}

	prof := snap.Profile
	if prof.Username = pstrings.Handle(prof.Username); prof.Username == "" {
		prof.Username = handle
	}
	prof.Website = s.expand(ctx, prof.Website)

	err = s.writer.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		id, created, err := r.UpsertUser(ctx, prof)
		if err != nil {
			return err
		}
		prof.UserID = id
		res = domain.AddResult{Profile: prof, Created: created}
		return r.RecordSample(ctx, stats.Sample{SubjectID: id, CapturedAt: s.now().UTC(), Counts: snap.Counts})
	})
	if err != nil {
		return domain.AddResult{}, err
	}

	s.invalidate(ctx, cache.UserKey(prof.Username), cache.HomeKey())
	return res, nil
}

// expand keeps the stored link when expansion fails
func (s *Svc) expand(ctx context.Context, link string) string {
	if s.expander == nil || link == "" {
		return link
	}
	out, err := s.expander.Expand(ctx, link)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("url", link).Msg("link expansion failed")
		return link
	}
	return out
}

func (s *Svc) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	for _, k := range keys {
		if err := s.cache.Invalidate(ctx, k); err != nil {
			logger.C(ctx).Warn().Err(err).Str("key", k).Msg("cache invalidate failed")
		}
	}
}
