package orchestrators

import (
	"context"

	"artcor/internal/domain/event"
	"artcor/internal/domain/member"
)

// MemberStore is the roster access the member orchestrators need.
type MemberStore interface {
	GetByID(ctx context.Context, id int) (member.Member, error)
	FindByName(ctx context.Context, name string) (member.Member, bool, error)
	Save(ctx context.Context, m member.Member) error
	Delete(ctx context.Context, id int) error
}

// EventStore is the event access the event orchestrators need.
type EventStore interface {
	GetByID(ctx context.Context, id int) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]event.Event, error)
}

// IDAllocator hands out the id space shared by members and events.
// Callers Peek, persist, then Observe, so a failed write leaves the counter
// where it was.
// PRE: Peek..Observe runs under the caller's write lock
type IDAllocator interface {
	Peek() int
	Observe(id int)
}

// EventReferenceStore finds events that still name a member as attendee.
type EventReferenceStore interface {
	ListByAttendee(ctx context.Context, memberID int) ([]event.Event, error)
}
