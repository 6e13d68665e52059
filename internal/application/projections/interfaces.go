package projections

import (
	"context"

	"artcor/internal/adapters/storage/event"
	"artcor/internal/adapters/storage/member"
	domainEvent "artcor/internal/domain/event"
	domainMember "artcor/internal/domain/member"
)

// MemberStore interface for roster queries.
type MemberStore interface {
	List(ctx context.Context, filter member.ListFilter) ([]domainMember.Member, error)
}

// EventStore interface for event queries.
type EventStore interface {
	All(ctx context.Context) ([]domainEvent.Event, error)
	List(ctx context.Context, filter event.ListFilter) ([]domainEvent.Event, error)
}
