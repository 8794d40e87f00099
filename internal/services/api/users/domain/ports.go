package domain

import (
	"context"

	"followstats/internal/core/stats"
)

// ServicePort is consumed by handlers
type ServicePort interface {
	// User returns nil for accounts that are not tracked
	User(ctx context.Context, username string) (*UserStats, error)
	// Calendar returns nil for accounts that are not tracked
	Calendar(ctx context.Context, username, period string, metric stats.Metric) (*Calendar, error)
	Add(ctx context.Context, username string) (AddResult, error)
}

// SampleReader is exported to the summary module
type SampleReader interface {
	Users(ctx context.Context) ([]UserRef, error)
	// RecentSamples returns at most limit samples, newest first
	RecentSamples(ctx context.Context, userID int64, limit int) ([]stats.Sample, error)
}

// ProfileSource looks an account up upstream. A nil snapshot with a nil
// error means the account does not exist.
type ProfileSource interface {
	Lookup(ctx context.Context, username string) (*Snapshot, error)
}

// Expander resolves a shortened link to its target
type Expander interface {
	Expand(ctx context.Context, url string) (string, error)
}
