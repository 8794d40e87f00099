package stats

import "time"

// Bucket is the single retained observation for one calendar hour
type Bucket struct {
	Key HourKey   `json:"-"`
	At  time.Time `json:"date"`
	Counts
}

// DiffedBucket is a bucket plus its change against the previous bucket
type DiffedBucket struct {
	Bucket
	Diff Counts `json:"diff"`
}

// Dedupe keeps the first sample seen for each hour key. Buckets come back in
// the order their key first appeared, so callers wanting a timeline should
// pass samples through SortChronological first.
func Dedupe(samples []Sample, loc *time.Location) []Bucket {
	out := make([]Bucket, 0, len(samples))
	seen := make(map[HourKey]struct{}, len(samples))
	for _, s := range samples {
		k := HourOf(s.CapturedAt, loc)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, Bucket{Key: k, At: s.CapturedAt, Counts: s.Counts})
	}
	return out
}

// Diff computes each bucket's change against the bucket right before it,
// whatever the time gap. The first bucket always diffs to zero.
func Diff(buckets []Bucket) []DiffedBucket {
	out := make([]DiffedBucket, len(buckets))
	for i, b := range buckets {
		out[i].Bucket = b
		if i == 0 {
			continue
		}
		out[i].Diff = b.Counts.Sub(buckets[i-1].Counts)
	}
	return out
}

// Hourly is the full per-subject pipeline: chronological sort, hourly
// dedupe and diff
func Hourly(samples []Sample, loc *time.Location) []DiffedBucket {
	return Diff(Dedupe(SortChronological(samples), loc))
}
