// Package domain holds the summary module types and ports
package domain

import (
	"context"
	"time"

	"followstats/internal/core/stats"
)

// Board is the cached day over day leaderboard
type Board struct {
	Rows    []stats.SubjectDelta `json:"rows"`
	Totals  stats.Counts         `json:"totals"`
	Users   int                  `json:"users"`
	BuiltAt time.Time            `json:"built_at"`
}

// Empty boards are not cached
func (b Board) Empty() bool { return len(b.Rows) == 0 }

// Summary is the served view: the board plus presentation fields that
// depend on the request time
type Summary struct {
	Board
	NextScrape time.Time `json:"next_scrape"`
	Display    Display   `json:"display"`
}

// Display carries preformatted strings for the front end
type Display struct {
	Rows      []DisplayRow `json:"rows"`
	Followers string       `json:"followers"`
	Following string       `json:"following"`
	Tweets    string       `json:"tweets"`
}

// DisplayRow is one leaderboard line with signed short numbers
type DisplayRow struct {
	Username  string `json:"username"`
	Followers string `json:"followers"`
	Following string `json:"following"`
	Tweets    string `json:"tweets"`
}

// ServicePort is consumed by handlers
type ServicePort interface {
	Summary(ctx context.Context) (*Summary, error)
}
