package account

import (
	"context"

	domain "yople/internal/domain/account"
)

// Store persists dashboard accounts (the users collection).
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Insert(ctx context.Context, value domain.Account) error
	Update(ctx context.Context, value domain.Account) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are ordered by creation time.
type ListFilter struct {
	PendingOnly bool
}
