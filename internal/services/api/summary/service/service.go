// Package service builds the day over day summary
package service

import (
	"context"
	"time"

	"followstats/internal/core/stats"
	"followstats/internal/platform/cache"
	"followstats/internal/platform/logger"
	"followstats/internal/platform/metrics"
	ptime "followstats/internal/platform/time"
	"followstats/internal/services/api/summary/domain"
	usersdomain "followstats/internal/services/api/users/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// Defaults for Options
const (
	DefaultFanout  = 8
	DefaultSamples = 100
)

// Options control service behavior
type Options struct {
	// Cache is optional; without it every request rebuilds the board
	Cache *cache.Memo

	Loc *time.Location
	Now func() time.Time

	// Fanout bounds concurrent per user reads
	Fanout int
	// Samples is how many recent samples per user feed the comparison
	Samples int
	// Lang picks digit grouping for display totals
	Lang language.Tag
}

// Svc implements domain.ServicePort
type Svc struct {
	reader usersdomain.SampleReader
	opt    Options
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs the service
func New(reader usersdomain.SampleReader, opt Options) *Svc {
	if reader == nil {
		panic("summary.Service requires a non nil SampleReader")
	}
	if opt.Loc == nil {
		opt.Loc = time.UTC
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Fanout <= 0 {
		opt.Fanout = DefaultFanout
	}
	if opt.Samples <= 0 {
		opt.Samples = DefaultSamples
	}
	if opt.Lang == language.Und {
		opt.Lang = language.English
	}
	return &Svc{reader: reader, opt: opt}
}

// Summary returns the leaderboard, cached under the home key
func (s *Svc) Summary(ctx context.Context) (*domain.Summary, error) {
	var (
		board domain.Board
		err   error
	)
	if s.opt.Cache == nil {
		board, err = s.Build(ctx)
	} else {
		board, err = cache.Get(ctx, s.opt.Cache, cache.HomeKey(), s.Build)
	}
	if err != nil {
		return nil, err
	}
	if board.Rows == nil {
		board.Rows = []stats.SubjectDelta{}
	}
	return &domain.Summary{
		Board:      board,
		NextScrape: ptime.NextHour(s.opt.Now()),
		Display:    display(board, s.opt.Lang),
	}, nil
}

// Build reads recent samples of every user concurrently and ranks their
// day over day deltas
func (s *Svc) Build(ctx context.Context) (domain.Board, error) {
	users, err := s.reader.Users(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	now := s.opt.Now()

	rows := make([]stats.SubjectDelta, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.Fanout)
	for i, u := range users {
		g.Go(func() error {
			recent, err := s.reader.RecentSamples(gctx, u.UserID, s.opt.Samples)
			if err != nil {
				return err
			}
			rows[i] = stats.SubjectDelta{
				SubjectID: u.UserID,
				Username:  u.Username,
				Counts:    stats.DayOverDay(recent, now, s.opt.Loc),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Board{}, err
	}

	ranked := stats.RankByFollowers(rows)
	metrics.SummaryUsers.Set(float64(len(users)))
	logger.C(ctx).Debug().Int("users", len(users)).Msg("summary built")

	return domain.Board{
		Rows:    ranked,
		Totals:  stats.Totals(ranked),
		Users:   len(users),
		BuiltAt: now.UTC(),
	}, nil
}

func display(b domain.Board, lang language.Tag) domain.Display {
	d := domain.Display{
		Rows:      make([]domain.DisplayRow, 0, len(b.Rows)),
		Followers: stats.Grouped(b.Totals.Followers, lang),
		Following: stats.Grouped(b.Totals.Following, lang),
		Tweets:    stats.Grouped(b.Totals.Tweets, lang),
	}
	for _, r := range b.Rows {
		d.Rows = append(d.Rows, domain.DisplayRow{
			Username:  r.Username,
			Followers: stats.Signed(r.Followers),
			Following: stats.Signed(r.Following),
			Tweets:    stats.Signed(r.Tweets),
		})
	}
	return d
}
