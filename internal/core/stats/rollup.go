package stats

import "time"

// Unit is the width of one rollup slot
type Unit int

// Rollup units
const (
	Hour Unit = iota
	Day
)

func (u Unit) String() string {
	if u == Hour {
		return "hour"
	}
	return "day"
}

// Slot aggregates the buckets falling into one unit of time. Value is the
// first bucket seen in the slot and is nil when the slot had no data.
type Slot struct {
	Start   time.Time `json:"date"`
	Value   *Counts   `json:"value"`
	Diff    Counts    `json:"diff"`
	Buckets int       `json:"buckets"`
}

// Rollup folds diffed buckets into n slots walking back from now. Slot 0 is
// the unit containing now, slot i is i units earlier. Buckets outside the
// window are ignored. buckets must be chronological.
func Rollup(buckets []DiffedBucket, now time.Time, u Unit, n int, loc *time.Location) []Slot {
	if n <= 0 {
		return []Slot{}
	}
	loc = orUTC(loc)

	slots := make([]Slot, n)
	index := make(map[HourKey]int, n)
	for i := range slots {
		start := u.start(now, i, loc)
		slots[i].Start = start
		index[u.key(start, loc)] = i
	}

	for _, b := range buckets {
		i, ok := index[u.key(b.At, loc)]
		if !ok {
			continue
		}
		if slots[i].Value == nil {
			v := b.Counts
			slots[i].Value = &v
		}
		slots[i].Diff = slots[i].Diff.Add(b.Diff)
		slots[i].Buckets++
	}
	return slots
}

// MaxDiff returns the largest diff of metric m across slots, zero when empty
func MaxDiff(slots []Slot, m Metric) int64 {
	var best int64
	for i, s := range slots {
		if v := s.Diff.Of(m); i == 0 || v > best {
			best = v
		}
	}
	return best
}

func (u Unit) key(t time.Time, loc *time.Location) HourKey {
	k := HourOf(t, loc)
	if u == Day {
		k.Hour = 0
	}
	return k
}

func (u Unit) start(now time.Time, back int, loc *time.Location) time.Time {
	t := now.In(loc)
	if u == Hour {
		top := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		return top.Add(-time.Duration(back) * time.Hour)
	}
	return time.Date(t.Year(), t.Month(), t.Day()-back, 0, 0, 0, 0, loc)
}
