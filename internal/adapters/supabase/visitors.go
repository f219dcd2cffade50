package supabase

import (
	"context"
	"net/url"
	"time"

	"yople/internal/adapters/storage"
	visitorStore "yople/internal/adapters/storage/visitor"
	domain "yople/internal/domain/visitor"
)

const visitorsTable = "visitors"

type visitorRow struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at,omitempty"`
}

// VisitorStore implements the visitor store against the visitors collection.
type VisitorStore struct {
	c *Client
}

// NewVisitorStore creates a hosted visitor store.
func NewVisitorStore(c *Client) *VisitorStore {
	return &VisitorStore{c: c}
}

var _ visitorStore.Store = (*VisitorStore)(nil)

// Insert records one visitor.
func (s *VisitorStore) Insert(ctx context.Context, v domain.Visitor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	return s.c.insert(ctx, visitorsTable, visitorRow{ID: v.ID, Date: v.Date, CreatedAt: storage.FormatTime(v.CreatedAt)})
}

// List returns visitors whose date lies in [from, to]; empty bounds are open.
func (s *VisitorStore) List(ctx context.Context, from, to string) ([]domain.Visitor, error) {
	q := url.Values{"select": {"id,date,created_at"}, "order": {"date.asc,created_at.asc,id.asc"}}
	if from != "" {
		q.Add("date", "gte."+from)
	}
	if to != "" {
		q.Add("date", "lte."+to)
	}
	rows, err := selectAll[visitorRow](ctx, s.c, visitorsTable, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Visitor, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Visitor{ID: r.ID, Date: r.Date, CreatedAt: parseTime(r.CreatedAt)})
	}
	return out, nil
}
