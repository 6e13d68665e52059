package member

import (
	"context"

	domain "artcor/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id int) (domain.Member, error)
	FindByName(ctx context.Context, name string) (domain.Member, bool, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
// Zero values mean no limit and no role filter.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
}
