package attendance

import (
	"fmt"
	"math"
	"time"

	"artcor/internal/domain/event"
	"artcor/internal/domain/failure"
	"artcor/internal/domain/member"
)

// Kind names a statistics time window.
type Kind string

// Filter kinds.
const (
	KindAll       Kind = "all"
	KindLastYear  Kind = "year"
	KindLastMonth Kind = "month"
	KindYear      Kind = "in-year"
	KindYearMonth Kind = "in-month"
)

// Percentage band thresholds.
const (
	HighThreshold   = 75
	MediumThreshold = 50
)

// Band classifies a percentage for display.
type Band string

// Bands.
const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// Filter selects the events that count towards statistics.
// Rolling windows are anchored on the caller's clock; exact windows match
// date components.
type Filter struct {
	Kind  Kind
	Year  int
	Month time.Month
}

// All counts every event.
func All() Filter { return Filter{Kind: KindAll} }

// LastYear counts events dated on or after the same day one year ago.
func LastYear() Filter { return Filter{Kind: KindLastYear} }

// LastMonth counts events dated on or after the same day one month ago.
func LastMonth() Filter { return Filter{Kind: KindLastMonth} }

// InYear counts events in calendar year y.
func InYear(y int) Filter { return Filter{Kind: KindYear, Year: y} }

// InYearMonth counts events in month m of year y.
func InYearMonth(y int, m time.Month) Filter {
	return Filter{Kind: KindYearMonth, Year: y, Month: m}
}

// ParseFilter builds a Filter from its wire form.
// PRE: none
// POST: Returns a valid Filter or a *failure.ValidationError
func ParseFilter(kind string, year, month int) (Filter, error) {
	f := Filter{Kind: Kind(kind), Year: year, Month: time.Month(month)}
	if kind == "" {
		f.Kind = KindAll
	}
	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// Validate checks the filter's parameters.
// PRE: none
// POST: Returns nil if the kind is known and its parameters are in range
func (f Filter) Validate() error {
	switch f.Kind {
	case KindAll, KindLastYear, KindLastMonth:
		return nil
	case KindYear:
		if f.Year <= 0 {
			return failure.Invalid("filter year", "must be positive")
		}
		return nil
	case KindYearMonth:
		if f.Year <= 0 {
			return failure.Invalid("filter year", "must be positive")
		}
		if f.Month < time.January || f.Month > time.December {
			return failure.Invalid("filter month", "must be 1-12")
		}
		return nil
	}
	return failure.Invalid("filter", fmt.Sprintf("unknown kind %q", f.Kind))
}

// Cutoff returns the earliest date a rolling window includes, relative to now.
// The second result is false for non-rolling filters.
func (f Filter) Cutoff(now time.Time) (event.Date, bool) {
	switch f.Kind {
	case KindLastYear:
		return event.DateOf(now.AddDate(-1, 0, 0)), true
	case KindLastMonth:
		return event.DateOf(now.AddDate(0, -1, 0)), true
	}
	return event.Date{}, false
}

// Match reports whether e falls inside the window.
// PRE: f is valid
// INVARIANT: e is not mutated
func (f Filter) Match(e event.Event, now time.Time) bool {
	switch f.Kind {
	case KindLastYear, KindLastMonth:
		cutoff, _ := f.Cutoff(now)
		return !e.Date.Before(cutoff)
	case KindYear:
		return e.Date.Year == f.Year
	case KindYearMonth:
		return e.Date.Year == f.Year && e.Date.Month == f.Month
	}
	return true
}

// Stats is one member's attendance inside a window.
// INVARIANT: 0 <= Attended <= Total; 0 <= Percentage <= 100
type Stats struct {
	Attended   int `json:"attended"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Band returns the display band for the percentage.
func (s Stats) Band() Band {
	switch {
	case s.Percentage >= HighThreshold:
		return BandHigh
	case s.Percentage >= MediumThreshold:
		return BandMedium
	}
	return BandLow
}

// Percentage rounds attended/total to a whole percent, half away from zero.
// Zero total yields zero.
func Percentage(attended, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(attended) / float64(total) * 100))
}

// Compute returns attendance stats for every member under filter.
// Every member is measured against every event in the window; there is no
// join date.
// PRE: filter is valid
// POST: One entry per member id; empty windows yield zeroed stats
func Compute(members []member.Member, events []event.Event, filter Filter, now time.Time) map[int]Stats {
	relevant := make([]event.Event, 0, len(events))
	for _, e := range events {
		if filter.Match(e, now) {
			relevant = append(relevant, e)
		}
	}

	out := make(map[int]Stats, len(members))
	for _, m := range members {
		attended := 0
		for _, e := range relevant {
			if e.Attends(m.ID) {
				attended++
			}
		}
		out[m.ID] = Stats{
			Attended:   attended,
			Total:      len(relevant),
			Percentage: Percentage(attended, len(relevant)),
		}
	}
	return out
}

// WindowSize returns how many events fall inside the filter.
func WindowSize(events []event.Event, filter Filter, now time.Time) int {
	n := 0
	for _, e := range events {
		if filter.Match(e, now) {
			n++
		}
	}
	return n
}
