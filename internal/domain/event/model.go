package event

import (
	"slices"
	"strings"
	"unicode/utf8"

	"artcor/internal/domain/failure"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 200
)

// Event is a dated occurrence with a name and a set of attending member ids.
// Attendees are plain ids; an id may outlive the member it named.
// INVARIANT: ID is positive; Attendees holds no duplicates
type Event struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Date      Date   `json:"date"`
	Attendees []int  `json:"attendees"`
}

// Policy gates the rules that differ between deployments.
type Policy struct {
	AllowEmptyName bool
}

// New builds an Event from raw values, trimming the name and collapsing
// duplicate attendee ids.
// PRE: id > 0
// POST: Returns a valid Event or a *failure.ValidationError
func New(id int, name string, date Date, attendees []int, policy Policy) (Event, error) {
	e := Event{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Date:      date,
		Attendees: NormalizeAttendees(attendees),
	}
	if err := e.Validate(policy); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Draft trims and validates raw values before an id is allocated.
// PRE: none
// POST: Returns an Event with ID 0 and valid fields, or a *failure.ValidationError
func Draft(name string, date Date, attendees []int, policy Policy) (Event, error) {
	e := Event{
		Name:      strings.TrimSpace(name),
		Date:      date,
		Attendees: NormalizeAttendees(attendees),
	}
	if err := e.validateFields(policy); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks if the Event has valid data.
// PRE: Event struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Date must be set; Name must be non-empty unless policy allows it
func (e *Event) Validate(policy Policy) error {
	if e.ID <= 0 {
		return failure.Invalid("event id", "must be positive")
	}
	return e.validateFields(policy)
}

func (e *Event) validateFields(policy Policy) error {
	if !policy.AllowEmptyName && strings.TrimSpace(e.Name) == "" {
		return failure.Invalid("event name", "cannot be empty")
	}
	if utf8.RuneCountInString(e.Name) > MaxNameLength {
		return failure.Invalid("event name", "cannot exceed 200 characters")
	}
	if e.Date.IsZero() {
		return failure.Invalid("event date", "cannot be empty")
	}
	for _, id := range e.Attendees {
		if id <= 0 {
			return failure.Invalid("attendee id", "must be positive")
		}
	}
	return nil
}

// Attends reports whether memberID is in the attendee set.
// INVARIANT: Event is not mutated
func (e *Event) Attends(memberID int) bool {
	return slices.Contains(e.Attendees, memberID)
}

// NormalizeAttendees drops repeated ids, keeping first occurrences in order.
// A nil input yields an empty, non-nil slice so it encodes as [].
func NormalizeAttendees(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ByDateDesc orders events newest first, keeping input order for equal dates.
func ByDateDesc(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return b.Date.Compare(a.Date)
	})
}
