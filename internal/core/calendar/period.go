// Package calendar maps rollup slots onto the fixed grids used by the stats
// boxes. Grids are filled newest first from the bottom right corner and read
// column by column, the way contribution calendars are.
package calendar

import (
	"sort"

	"followstats/internal/core/stats"
	perr "followstats/internal/platform/errors"
)

// Period describes one calendar view
type Period struct {
	Name    string     `json:"name"`
	Unit    stats.Unit `json:"-"`
	Cells   int        `json:"cells"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
}

// Built in periods
var (
	DayPeriod       = Period{Name: "day", Unit: stats.Hour, Cells: 24, Rows: 4, Columns: 6}
	WeekPeriod      = Period{Name: "week", Unit: stats.Day, Cells: 7, Rows: 1, Columns: 7}
	FortnightPeriod = Period{Name: "fortnight", Unit: stats.Day, Cells: 14, Rows: 2, Columns: 7}
	MonthPeriod     = Period{Name: "month", Unit: stats.Day, Cells: 31, Rows: 5, Columns: 7}
	YearPeriod      = Period{Name: "year", Unit: stats.Day, Cells: 280, Rows: 7, Columns: 40}
)

var periods = map[string]Period{
	DayPeriod.Name:       DayPeriod,
	WeekPeriod.Name:      WeekPeriod,
	FortnightPeriod.Name: FortnightPeriod,
	MonthPeriod.Name:     MonthPeriod,
	YearPeriod.Name:      YearPeriod,
}

// Lookup returns the built in period called name
func Lookup(name string) (Period, bool) {
	p, ok := periods[name]
	return p, ok
}

// Names lists the built in period names sorted
func Names() []string {
	out := make([]string, 0, len(periods))
	for n := range periods {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate checks the grid can hold every cell
func (p Period) Validate() error {
	if p.Cells <= 0 || p.Rows <= 0 || p.Columns <= 0 {
		return perr.Newf(perr.ErrorCodeInvalidArgument, "calendar: period %q needs positive dimensions", p.Name)
	}
	if p.Rows*p.Columns < p.Cells {
		return perr.Newf(perr.ErrorCodeInvalidArgument,
			"calendar: period %q grid %dx%d cannot hold %d cells", p.Name, p.Rows, p.Columns, p.Cells)
	}
	return nil
}
