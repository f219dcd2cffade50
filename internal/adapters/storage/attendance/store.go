package attendance

import (
	"context"

	domain "yople/internal/domain/attendance"
)

// Store persists attendance entries. (MemberID, Date) is unique.
type Store interface {
	Insert(ctx context.Context, value domain.Attendance) error
	GetByID(ctx context.Context, id string) (domain.Attendance, error)
	Update(ctx context.Context, value domain.Attendance) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error)
}

// ListFilter selects entries whose Date lies in [From, To]; empty bounds are open.
// Results are ordered by date, then check-in time.
type ListFilter struct {
	From     string
	To       string
	MemberID string
}

// OnDate returns a filter for a single day.
func OnDate(date string) ListFilter {
	return ListFilter{From: date, To: date}
}
