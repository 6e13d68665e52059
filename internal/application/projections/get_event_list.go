package projections

import (
	"context"
	"time"

	"artcor/internal/adapters/storage/event"
	"artcor/internal/adapters/storage/member"
	"artcor/internal/domain/calendar"
)

// GetEventListQuery carries input for the event list projection.
// Zero Year lists every event; Month only applies with Year.
type GetEventListQuery struct {
	Locale calendar.Locale
	Year   int
	Month  time.Month
}

// GetEventListDeps holds dependencies for the event list projection.
type GetEventListDeps struct {
	MemberStore MemberStore
	EventStore  EventStore
}

// EventView is an event card with attendee names resolved.
type EventView struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Date      string         `json:"date"`
	DateLabel string         `json:"date_label"`
	Attendees []AttendeeView `json:"attendees"`
}

// AttendeeView names one attendee. Known is false for ids with no roster entry.
type AttendeeView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Known bool   `json:"known"`
}

// QueryGetEventList returns events newest first with attendee names.
// Dangling attendee ids are shown with the locale's unknown label, never dropped.
// PRE: deps are valid and non-nil
// POST: Attendees keep the event's stored order
func QueryGetEventList(ctx context.Context, query GetEventListQuery, deps GetEventListDeps) ([]EventView, error) {
	members, err := deps.MemberStore.List(ctx, member.ListFilter{})
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	filter := event.ListFilter{Year: query.Year}
	if query.Year != 0 {
		filter.Month = query.Month
	}
	events, err := deps.EventStore.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]EventView, 0, len(events))
	for _, e := range events {
		v := EventView{
			ID:        e.ID,
			Name:      e.Name,
			Date:      e.Date.String(),
			DateLabel: query.Locale.LongDate(e.Date),
			Attendees: make([]AttendeeView, 0, len(e.Attendees)),
		}
		for _, id := range e.Attendees {
			name, ok := names[id]
			if !ok {
				name = query.Locale.UnknownMember()
			}
			v.Attendees = append(v.Attendees, AttendeeView{ID: id, Name: name, Known: ok})
		}
		out = append(out, v)
	}
	return out, nil
}
