package visitor

import (
	"context"

	domain "yople/internal/domain/visitor"
)

// Store persists anonymous visitor check-ins.
type Store interface {
	Insert(ctx context.Context, value domain.Visitor) error
	List(ctx context.Context, from, to string) ([]domain.Visitor, error)
}
