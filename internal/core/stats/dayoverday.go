package stats

import (
	"sort"
	"time"
)

// SubjectDelta is one ranked row of the day over day summary
type SubjectDelta struct {
	SubjectID int64  `json:"user_id"`
	Username  string `json:"username"`
	Counts
}

// DayOverDay compares the newest sample captured today with the newest
// sample captured on any other day. "Today" is the calendar date of now in
// loc. When either side has no sample the result is all zeros.
func DayOverDay(recent []Sample, now time.Time, loc *time.Location) Counts {
	today := DayOf(now, loc)

	var cur, prev *Sample
	for i := range recent {
		s := &recent[i]
		if DayOf(s.CapturedAt, loc) == today {
			if cur == nil || s.CapturedAt.After(cur.CapturedAt) {
				cur = s
			}
			continue
		}
		if prev == nil || s.CapturedAt.After(prev.CapturedAt) {
			prev = s
		}
	}
	if cur == nil || prev == nil {
		return Counts{}
	}
	return cur.Counts.Sub(prev.Counts)
}

// RankByFollowers orders rows by followers delta, largest first. Rows with
// equal deltas keep their input order. The slice is sorted in place and
// returned for chaining.
func RankByFollowers(rows []SubjectDelta) []SubjectDelta {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Followers > rows[j].Followers
	})
	return rows
}

// Totals sums the deltas of every row
func Totals(rows []SubjectDelta) Counts {
	var t Counts
	for _, r := range rows {
		t = t.Add(r.Counts)
	}
	return t
}
