package orchestrators

import (
	"context"

	"go.uber.org/zap"

	"artcor/internal/domain/event"
)

// SaveEventInput carries raw values for a new or edited event.
// Attendees are taken as given; they are not checked against the roster.
type SaveEventInput struct {
	EventID   int // ignored on add
	Name      string
	Date      string // YYYY-MM-DD
	Attendees []int
}

// SaveEventDeps holds dependencies for AddEvent and UpdateEvent.
type SaveEventDeps struct {
	EventStore EventStore
	IDs        IDAllocator
	Policy     event.Policy
}

// ExecuteAddEvent validates and stores a new event.
// PRE: IDs.Peek returns an id never used by a live member or event
// POST: Event persisted with a fresh id and de-duplicated attendees; no id consumed on failure
func ExecuteAddEvent(ctx context.Context, input SaveEventInput, deps SaveEventDeps) (event.Event, error) {
	e, err := draftEvent(input, deps.Policy)
	if err != nil {
		return event.Event{}, err
	}

	e.ID = deps.IDs.Peek()
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}
	deps.IDs.Observe(e.ID)

	zap.L().Info("event_event",
		zap.String("event", "event_added"),
		zap.Int("event_id", e.ID),
		zap.Stringer("date", e.Date),
		zap.Int("attendees", len(e.Attendees)),
	)
	return e, nil
}

// ExecuteUpdateEvent replaces every field of an existing event, including the
// whole attendee set.
// PRE: input.EventID names an existing event
// POST: Event persisted; attendees equal input.Attendees de-duplicated, never merged
func ExecuteUpdateEvent(ctx context.Context, input SaveEventInput, deps SaveEventDeps) (event.Event, error) {
	if _, err := deps.EventStore.GetByID(ctx, input.EventID); err != nil {
		return event.Event{}, err
	}

	e, err := draftEvent(input, deps.Policy)
	if err != nil {
		return event.Event{}, err
	}
	e.ID = input.EventID

	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	zap.L().Info("event_event",
		zap.String("event", "event_updated"),
		zap.Int("event_id", e.ID),
		zap.Int("attendees", len(e.Attendees)),
	)
	return e, nil
}

// DeleteEventInput identifies the event to remove.
type DeleteEventInput struct {
	EventID int
}

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	EventStore EventStore
}

// ExecuteDeleteEvent removes an event. Events are the referencing side, so no
// integrity check applies.
// PRE: EventID names an existing event
// POST: Event removed, or *failure.NotFoundError
func ExecuteDeleteEvent(ctx context.Context, input DeleteEventInput, deps DeleteEventDeps) error {
	if err := deps.EventStore.Delete(ctx, input.EventID); err != nil {
		return err
	}
	zap.L().Info("event_event", zap.String("event", "event_deleted"), zap.Int("event_id", input.EventID))
	return nil
}

func draftEvent(input SaveEventInput, policy event.Policy) (event.Event, error) {
	date, err := event.ParseDate(input.Date)
	if err != nil {
		return event.Event{}, err
	}
	return event.Draft(input.Name, date, input.Attendees, policy)
}
