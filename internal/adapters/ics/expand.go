package ics

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"artcor/internal/domain/event"
)

// DefaultMaxOccurrences caps how many instances one recurring entry may yield.
const DefaultMaxOccurrences = 500

// Occurrence is one dated instance of an Entry.
type Occurrence struct {
	UID     string
	Summary string
	Date    event.Date
}

// Occurrences expands entries into dated instances inside [from, to].
// Overrides (entries with RECURRENCE-ID) replace the instance they name.
// A malformed RRULE falls back to the single DTSTART instance.
// PRE: from <= to; max <= 0 means DefaultMaxOccurrences
// POST: Returns instances sorted by date, then UID
func Occurrences(entries []Entry, from, to time.Time, max int) []Occurrence {
	if max <= 0 {
		max = DefaultMaxOccurrences
	}

	overridden := make(map[string][]time.Time)
	for _, e := range entries {
		if e.Recurrence != nil && e.UID != "" {
			overridden[e.UID] = append(overridden[e.UID], *e.Recurrence)
		}
	}

	out := make([]Occurrence, 0)
	for _, e := range entries {
		var starts []time.Time
		switch {
		case e.Recurrence != nil || e.RawRRule == "":
			if inRange(e.Start, from, to) {
				starts = []time.Time{e.Start}
			}
		default:
			exdates := append(slices.Clone(e.ExDates), overridden[e.UID]...)
			expanded, err := expand(e, exdates, from, to, max)
			if err != nil {
				zap.L().Warn("ics_rrule_invalid", zap.String("uid", e.UID), zap.Error(err))
				if inRange(e.Start, from, to) {
					starts = []time.Time{e.Start}
				}
				break
			}
			starts = expanded
		}

		for _, s := range starts {
			out = append(out, Occurrence{UID: e.UID, Summary: e.Summary, Date: event.DateOf(s)})
		}
	}

	slices.SortStableFunc(out, func(a, b Occurrence) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		switch {
		case a.UID < b.UID:
			return -1
		case a.UID > b.UID:
			return 1
		}
		return 0
	})
	return out
}

func expand(e Entry, exdates []time.Time, from, to time.Time, max int) ([]time.Time, error) {
	r, err := rrule.StrToRRule(e.RawRRule)
	if err != nil {
		return nil, fmt.Errorf("parse rrule %q: %w", e.RawRRule, err)
	}
	r.DTStart(e.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exdates {
		set.ExDate(ex.In(e.Start.Location()))
	}

	starts := set.Between(from, to, true)
	if len(starts) > max {
		zap.L().Warn("ics_occurrences_capped", zap.String("uid", e.UID), zap.Int("max", max))
		starts = starts[:max]
	}
	return starts, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
