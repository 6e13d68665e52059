package orchestrators

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"artcor/internal/adapters/ics"
	"artcor/internal/domain/event"
	"artcor/internal/domain/failure"
)

// ImportCalendarInput carries an iCalendar feed and the window to import.
type ImportCalendarInput struct {
	Body           io.Reader
	From           time.Time
	To             time.Time
	Location       *time.Location
	MaxOccurrences int
}

// ImportCalendarDeps holds dependencies for ImportCalendar.
type ImportCalendarDeps struct {
	EventStore EventStore
	IDs        IDAllocator
	Policy     event.Policy
}

// ImportCalendarResult summarizes an import run.
type ImportCalendarResult struct {
	Created  []event.Event `json:"created"`
	Skipped  int           `json:"skipped"`  // already present by name and date
	Rejected int           `json:"rejected"` // failed event validation
}

// ExecuteImportCalendar creates one attendee-less event per calendar
// occurrence inside the window.
// PRE: From <= To; Body is an iCalendar document
// POST: Occurrences already stored under the same name and date are skipped
// INVARIANT: Existing events are never modified
func ExecuteImportCalendar(ctx context.Context, input ImportCalendarInput, deps ImportCalendarDeps) (ImportCalendarResult, error) {
	var result ImportCalendarResult
	if input.To.Before(input.From) {
		return result, failure.Invalid("import window", "end must not precede start")
	}
	loc := input.Location
	if loc == nil {
		loc = time.UTC
	}

	entries, err := ics.Parse(input.Body, loc)
	if err != nil {
		return result, failure.Invalid("calendar", err.Error())
	}

	existing, err := deps.EventStore.All(ctx)
	if err != nil {
		return result, err
	}
	seen := make(map[importKey]struct{}, len(existing))
	for _, e := range existing {
		seen[importKey{e.Name, e.Date}] = struct{}{}
	}

	for _, occ := range ics.Occurrences(entries, input.From, input.To, input.MaxOccurrences) {
		e, err := event.Draft(occ.Summary, occ.Date, nil, deps.Policy)
		if err != nil {
			if !errors.Is(err, failure.ErrValidation) {
				return result, err
			}
			result.Rejected++
			continue
		}

		key := importKey{e.Name, e.Date}
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}

		e.ID = deps.IDs.Peek()
		if err := deps.EventStore.Save(ctx, e); err != nil {
			return result, err
		}
		deps.IDs.Observe(e.ID)
		seen[key] = struct{}{}
		result.Created = append(result.Created, e)
	}

	zap.L().Info("event_event",
		zap.String("event", "calendar_imported"),
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", result.Skipped),
		zap.Int("rejected", result.Rejected),
	)
	return result, nil
}

type importKey struct {
	name string
	date event.Date
}
