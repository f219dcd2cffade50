package member

import (
	"context"

	domain "yople/internal/domain/member"
)

// Store persists the youth-group roster.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	Insert(ctx context.Context, value domain.Member) error
	Update(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	ListByCreation(ctx context.Context) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are ordered by name; a zero Limit means no limit.
type ListFilter struct {
	Limit  int
	Offset int
	Search string
}
