package module

import (
	"context"

	"followstats/internal/core/stats"
	"followstats/internal/modkit/repokit"
	"followstats/internal/services/api/users/domain"
	"followstats/internal/services/api/users/repo"
)

// sampleReader adapts the repo binder to the SampleReader port, reading
// straight from the pool
type sampleReader struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
}

func newSampleReader(db repokit.TxRunner, b repokit.Binder[repo.Repo]) *sampleReader {
	if db == nil {
		panic("users: sample reader requires a non nil TxRunner")
	}
	return &sampleReader{db: db, binder: b}
}

func (s *sampleReader) Users(ctx context.Context) ([]domain.UserRef, error) {
	return s.binder.Bind(s.db).Users(ctx)
}

func (s *sampleReader) RecentSamples(ctx context.Context, userID int64, limit int) ([]stats.Sample, error) {
	return s.binder.Bind(s.db).RecentSamples(ctx, userID, limit)
}

var _ domain.SampleReader = (*sampleReader)(nil)
