package projections

import (
	"context"

	"artcor/internal/domain/calendar"
	domainEvent "artcor/internal/domain/event"
)

// GetEventTreeQuery carries input for the event tree projection.
type GetEventTreeQuery struct {
	Locale calendar.Locale
}

// GetEventTreeDeps holds dependencies for the event tree projection.
type GetEventTreeDeps struct {
	EventStore EventStore
}

// EventTreeResult is the year/month/day navigation tree with display labels.
type EventTreeResult struct {
	Empty bool           `json:"empty"`
	Count int            `json:"count"`
	Years []TreeYearView `json:"years"`
}

// TreeYearView is one year of the tree.
type TreeYearView struct {
	Year   int             `json:"year"`
	Months []TreeMonthView `json:"months"`
}

// TreeMonthView is one month of a year.
type TreeMonthView struct {
	Month int           `json:"month"`
	Label string        `json:"label"`
	Days  []TreeDayView `json:"days"`
}

// TreeDayView is one day of a month.
type TreeDayView struct {
	Day    int            `json:"day"`
	Date   string         `json:"date"`
	Label  string         `json:"label"`
	Events []TreeEventRef `json:"events"`
}

// TreeEventRef is an event leaf.
type TreeEventRef struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	AttendeeCount int    `json:"attendee_count"`
}

// QueryGetEventTree builds the navigation tree over every stored event.
// PRE: deps are valid and non-nil
// POST: Years, months and days newest first; same-day events in store order
func QueryGetEventTree(ctx context.Context, query GetEventTreeQuery, deps GetEventTreeDeps) (EventTreeResult, error) {
	events, err := deps.EventStore.All(ctx)
	if err != nil {
		return EventTreeResult{}, err
	}

	tree := calendar.BuildTree(events)
	result := EventTreeResult{
		Empty: tree.Empty(),
		Count: tree.Count(),
		Years: make([]TreeYearView, 0, len(tree.Years)),
	}

	for _, y := range tree.Years {
		yv := TreeYearView{Year: y.Year, Months: make([]TreeMonthView, 0, len(y.Months))}
		for _, m := range y.Months {
			mv := TreeMonthView{
				Month: int(m.Month),
				Label: query.Locale.MonthLabel(m.Month),
				Days:  make([]TreeDayView, 0, len(m.Days)),
			}
			for _, d := range m.Days {
				mv.Days = append(mv.Days, TreeDayView{
					Day:    d.Day,
					Date:   d.Date.String(),
					Label:  query.Locale.DayLabel(d.Date),
					Events: eventRefs(d.Events),
				})
			}
			yv.Months = append(yv.Months, mv)
		}
		result.Years = append(result.Years, yv)
	}
	return result, nil
}

func eventRefs(events []domainEvent.Event) []TreeEventRef {
	out := make([]TreeEventRef, len(events))
	for i, e := range events {
		out[i] = TreeEventRef{ID: e.ID, Name: e.Name, AttendeeCount: len(e.Attendees)}
	}
	return out
}
