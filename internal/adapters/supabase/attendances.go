package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"yople/internal/adapters/storage"
	attendanceStore "yople/internal/adapters/storage/attendance"
	domain "yople/internal/domain/attendance"
)

const attendancesTable = "attendances"

type attendanceRow struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (r attendanceRow) toDomain() domain.Attendance {
	return domain.Attendance{ID: r.ID, MemberID: r.MemberID, Date: r.Date, CreatedAt: parseTime(r.CreatedAt)}
}

// AttendanceStore implements the attendance store against the attendances collection.
type AttendanceStore struct {
	c *Client
}

// NewAttendanceStore creates a hosted attendance store.
func NewAttendanceStore(c *Client) *AttendanceStore {
	return &AttendanceStore{c: c}
}

var _ attendanceStore.Store = (*AttendanceStore)(nil)

// Insert records one entry; the (member_id, date) unique key yields storage.ErrDuplicate.
func (s *AttendanceStore) Insert(ctx context.Context, a domain.Attendance) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return s.c.insert(ctx, attendancesTable, attendanceRow{
		ID: a.ID, MemberID: a.MemberID, Date: a.Date, CreatedAt: storage.FormatTime(a.CreatedAt),
	})
}

// GetByID retrieves an entry by its ID.
func (s *AttendanceStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	var rows []attendanceRow
	q := url.Values{"select": {"id,member_id,date,created_at"}, "id": {"eq." + id}, "limit": {"1"}}
	if err := s.c.selectRows(ctx, attendancesTable, q, &rows); err != nil {
		return domain.Attendance{}, err
	}
	if len(rows) == 0 {
		return domain.Attendance{}, fmt.Errorf("attendance %s: %w", id, storage.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// Update rewrites the check-in time of an entry.
func (s *AttendanceStore) Update(ctx context.Context, a domain.Attendance) error {
	return s.c.mutate(ctx, http.MethodPatch, attendancesTable, a.ID, map[string]any{"created_at": storage.FormatTime(a.CreatedAt)})
}

// Delete removes an entry.
func (s *AttendanceStore) Delete(ctx context.Context, id string) error {
	return s.c.mutate(ctx, http.MethodDelete, attendancesTable, id, nil)
}

// List returns entries in the filter's date range, ordered by date then check-in time.
func (s *AttendanceStore) List(ctx context.Context, filter attendanceStore.ListFilter) ([]domain.Attendance, error) {
	q := url.Values{"select": {"id,member_id,date,created_at"}, "order": {"date.asc,created_at.asc,id.asc"}}
	if filter.From != "" {
		q.Add("date", "gte."+filter.From)
	}
	if filter.To != "" {
		q.Add("date", "lte."+filter.To)
	}
	if filter.MemberID != "" {
		q.Set("member_id", "eq."+filter.MemberID)
	}
	rows, err := selectAll[attendanceRow](ctx, s.c, attendancesTable, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Attendance, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
