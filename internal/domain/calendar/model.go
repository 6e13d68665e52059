package calendar

import (
	"slices"
	"time"

	"artcor/internal/domain/event"
)

// Tree groups events by year, month and day for chronological navigation.
// It is a derived view: rebuild it after every mutation, never persist it.
// INVARIANT: Years, Months and Days are each sorted descending
type Tree struct {
	Years []YearNode
}

// YearNode holds the months of one calendar year that have events.
type YearNode struct {
	Year   int
	Months []MonthNode
}

// MonthNode holds the days of one month that have events.
type MonthNode struct {
	Month time.Month
	Days  []DayNode
}

// DayNode holds the events of one day in store order.
type DayNode struct {
	Day    int
	Date   event.Date
	Events []event.Event
}

// Empty reports whether the tree has no events at all.
func (t Tree) Empty() bool {
	return len(t.Years) == 0
}

// Count returns the number of events in the tree.
func (t Tree) Count() int {
	n := 0
	for _, y := range t.Years {
		for _, m := range y.Months {
			for _, d := range m.Days {
				n += len(d.Events)
			}
		}
	}
	return n
}

// BuildTree groups events into year, month and day buckets.
// PRE: none; events may be in any order
// POST: Levels sorted descending; events within a day keep their input order
// INVARIANT: events is not mutated
func BuildTree(events []event.Event) Tree {
	type dayKey = event.Date

	byDay := make(map[dayKey][]event.Event)
	var days []dayKey
	for _, e := range events {
		k := e.Date
		if _, ok := byDay[k]; !ok {
			days = append(days, k)
		}
		byDay[k] = append(byDay[k], e)
	}

	slices.SortFunc(days, func(a, b dayKey) int {
		return b.Compare(a)
	})

	var tree Tree
	for _, d := range days {
		if n := len(tree.Years); n == 0 || tree.Years[n-1].Year != d.Year {
			tree.Years = append(tree.Years, YearNode{Year: d.Year})
		}
		y := &tree.Years[len(tree.Years)-1]

		if n := len(y.Months); n == 0 || y.Months[n-1].Month != d.Month {
			y.Months = append(y.Months, MonthNode{Month: d.Month})
		}
		m := &y.Months[len(y.Months)-1]

		m.Days = append(m.Days, DayNode{Day: d.Day, Date: d, Events: byDay[d]})
	}
	return tree
}

// Find returns the day bucket for date, if present.
func (t Tree) Find(date event.Date) (DayNode, bool) {
	for _, y := range t.Years {
		if y.Year != date.Year {
			continue
		}
		for _, m := range y.Months {
			if m.Month != date.Month {
				continue
			}
			for _, d := range m.Days {
				if d.Day == date.Day {
					return d, true
				}
			}
		}
	}
	return DayNode{}, false
}
