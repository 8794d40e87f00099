// Package domain holds the users module types and ports
package domain

import (
	"time"

	"followstats/internal/core/calendar"
	"followstats/internal/core/stats"
)

// Profile is a tracked account as stored
type Profile struct {
	UserID   int64      `json:"user_id"`
	Username string     `json:"username"`
	Avatar   string     `json:"avatar,omitempty"`
	Banner   string     `json:"banner,omitempty"`
	Bio      string     `json:"bio,omitempty"`
	Location string     `json:"location,omitempty"`
	Website  string     `json:"website,omitempty"`
	JoinedAt *time.Time `json:"joined_at,omitempty"`
}

// Snapshot is what a ProfileSource reports for an account right now
type Snapshot struct {
	Profile
	stats.Counts
}

// UserStats is the cached per account payload: the profile plus one diffed
// bucket per observed hour, oldest first
type UserStats struct {
	Profile Profile              `json:"profile"`
	Stats   []stats.DiffedBucket `json:"stats"`
}

// Latest returns the newest bucket, nil when there are none
func (u *UserStats) Latest() *stats.DiffedBucket {
	if u == nil || len(u.Stats) == 0 {
		return nil
	}
	return &u.Stats[len(u.Stats)-1]
}

// Calendar is one period view of an account
type Calendar struct {
	Username string            `json:"username"`
	Period   calendar.Period   `json:"period"`
	Metric   stats.Metric      `json:"metric"`
	Cells    []calendar.Placed `json:"cells"`
	MaxDiff  int64             `json:"max_diff"`
}

// UserRef is the minimal identity the summary walks over
type UserRef struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// AddResult reports whether an add created the account or refreshed it
type AddResult struct {
	Profile Profile `json:"profile"`
	Created bool    `json:"created"`
}
