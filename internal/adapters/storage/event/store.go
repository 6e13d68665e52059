package event

import (
	"context"
	"time"

	domain "artcor/internal/domain/event"
)

// Store persists Event state.
type Store interface {
	GetByID(ctx context.Context, id int) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id int) error
	All(ctx context.Context) ([]domain.Event, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	ListByYear(ctx context.Context, year int) ([]domain.Event, error)
	ListByYearMonth(ctx context.Context, year int, month time.Month) ([]domain.Event, error)
	ListByAttendee(ctx context.Context, memberID int) ([]domain.Event, error)
	UniqueYears(ctx context.Context) ([]int, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero values match everything.
type ListFilter struct {
	Year       int
	Month      time.Month
	AttendeeID int
	Limit      int
}
