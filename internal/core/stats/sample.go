// Package stats turns raw profile samples into hourly buckets, deltas and
// calendar rollups. Everything here is pure and safe for concurrent use.
package stats

import (
	"fmt"
	"sort"
	"time"
)

// Metric names one of the tracked counters
type Metric string

// Tracked counters
const (
	Followers Metric = "followers"
	Following Metric = "following"
	Tweets    Metric = "tweets"
)

// Metrics lists every tracked counter in display order
var Metrics = []Metric{Followers, Following, Tweets}

// Valid reports whether m is a known counter
func (m Metric) Valid() bool {
	switch m {
	case Followers, Following, Tweets:
		return true
	}
	return false
}

// Counts is the triple of tracked counters. It is used both for absolute
// values and for deltas between two observations.
type Counts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
	Tweets    int64 `json:"tweets"`
}

// Sub returns c - o field by field
func (c Counts) Sub(o Counts) Counts {
	return Counts{
		Followers: c.Followers - o.Followers,
		Following: c.Following - o.Following,
		Tweets:    c.Tweets - o.Tweets,
	}
}

// Add returns c + o field by field
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Followers: c.Followers + o.Followers,
		Following: c.Following + o.Following,
		Tweets:    c.Tweets + o.Tweets,
	}
}

// Of returns the value of a single counter, zero for unknown metrics
func (c Counts) Of(m Metric) int64 {
	switch m {
	case Followers:
		return c.Followers
	case Following:
		return c.Following
	case Tweets:
		return c.Tweets
	}
	return 0
}

// Sample is one raw observation of a subject as stored
type Sample struct {
	SubjectID  int64     `json:"user_id"`
	CapturedAt time.Time `json:"created_at"`
	Counts
}

// HourKey identifies a calendar hour in the reference location
type HourKey struct {
	Year  int
	Month time.Month
	Day   int
	Hour  int
}

// HourOf returns the hour key of t in loc
func HourOf(t time.Time, loc *time.Location) HourKey {
	t = t.In(orUTC(loc))
	return HourKey{Year: t.Year(), Month: t.Month(), Day: t.Day(), Hour: t.Hour()}
}

func (k HourKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d", k.Year, int(k.Month), k.Day, k.Hour)
}

// DayKey identifies a calendar date in the reference location
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the date key of t in loc
func DayOf(t time.Time, loc *time.Location) DayKey {
	t = t.In(orUTC(loc))
	return DayKey{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

// SortChronological returns a copy of samples ordered by CapturedAt ascending.
// Samples captured at the same instant keep their input order.
func SortChronological(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CapturedAt.Before(out[j].CapturedAt)
	})
	return out
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
