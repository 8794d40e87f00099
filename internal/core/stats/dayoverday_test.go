package stats

import (
	"testing"
	"time"
)

func TestDayOverDay_TodayMinusNewestEarlier(t *testing.T) {
	now := at("2024-03-10T18:00:00Z")
	recent := []Sample{
		sample("2024-03-10T12:00:00Z", 1050),
		sample("2024-03-10T09:00:00Z", 1020),
		sample("2024-03-09T23:00:00Z", 1000),
		sample("2024-03-09T08:00:00Z", 900),
	}
	got := DayOverDay(recent, now, time.UTC)
	if got.Followers != 50 {
		t.Fatalf("followers delta = %d, want 50", got.Followers)
	}
}

func TestDayOverDay_OrderDoesNotMatter(t *testing.T) {
	now := at("2024-03-10T18:00:00Z")
	recent := []Sample{
		sample("2024-03-09T08:00:00Z", 900),
		sample("2024-03-10T09:00:00Z", 1020),
		sample("2024-03-09T23:00:00Z", 1000),
		sample("2024-03-10T12:00:00Z", 1050),
	}
	if got := DayOverDay(recent, now, time.UTC); got.Followers != 50 {
		t.Fatalf("followers delta = %d, want 50", got.Followers)
	}
}

func TestDayOverDay_ZeroWhenSideMissing(t *testing.T) {
	now := at("2024-03-10T18:00:00Z")

	onlyEarlier := []Sample{sample("2024-03-09T23:00:00Z", 1000)}
	if got := DayOverDay(onlyEarlier, now, time.UTC); got != (Counts{}) {
		t.Fatalf("no sample today should give zero, got %+v", got)
	}

	onlyToday := []Sample{sample("2024-03-10T01:00:00Z", 1000)}
	if got := DayOverDay(onlyToday, now, time.UTC); got != (Counts{}) {
		t.Fatalf("no earlier sample should give zero, got %+v", got)
	}

	if got := DayOverDay(nil, now, time.UTC); got != (Counts{}) {
		t.Fatalf("no samples should give zero, got %+v", got)
	}
}

func TestDayOverDay_ReferenceLocation(t *testing.T) {
	// 22:00Z on the 9th is already the 10th in UTC+3
	plus3 := time.FixedZone("UTC+3", 3*3600)
	now := at("2024-03-10T06:00:00Z")
	recent := []Sample{
		sample("2024-03-09T22:00:00Z", 700),
		sample("2024-03-09T20:00:00Z", 650),
	}
	if got := DayOverDay(recent, now, plus3); got.Followers != 50 {
		t.Fatalf("followers delta = %d, want 50", got.Followers)
	}
	if got := DayOverDay(recent, now, time.UTC); got != (Counts{}) {
		t.Fatalf("in UTC nothing is from today, got %+v", got)
	}
}

func TestRankByFollowers_Stable(t *testing.T) {
	rows := []SubjectDelta{
		{Username: "a", Counts: Counts{Followers: 5}},
		{Username: "b", Counts: Counts{Followers: 10}},
		{Username: "c", Counts: Counts{Followers: 5}},
		{Username: "d", Counts: Counts{Followers: -2}},
	}
	got := RankByFollowers(rows)
	want := []string{"b", "a", "c", "d"}
	for i, w := range want {
		if got[i].Username != w {
			t.Fatalf("rank[%d] = %s, want %s (all: %+v)", i, got[i].Username, w, got)
		}
	}
}

func TestTotals(t *testing.T) {
	rows := []SubjectDelta{
		{Counts: Counts{Followers: 5, Following: 1, Tweets: 2}},
		{Counts: Counts{Followers: -3, Following: 0, Tweets: 4}},
	}
	got := Totals(rows)
	if got != (Counts{Followers: 2, Following: 1, Tweets: 6}) {
		t.Fatalf("totals = %+v", got)
	}
}
