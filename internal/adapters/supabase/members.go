package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	memberStore "yople/internal/adapters/storage/member"
	domain "yople/internal/domain/member"
)

const membersTable = "members"

type memberRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	BirthDate   *string `json:"birth_date"`
	IsNewMember bool    `json:"is_new_member"`
	Memo        *string `json:"memo"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func toMemberRow(m domain.Member) memberRow {
	row := memberRow{
		ID:          m.ID,
		Name:        m.Name,
		Phone:       m.Phone,
		BirthDate:   optional(m.BirthDate),
		IsNewMember: m.IsNewMember,
		Memo:        optional(m.Memo),
	}
	if !m.CreatedAt.IsZero() {
		row.CreatedAt = storage.FormatTime(m.CreatedAt)
	}
	return row
}

func (r memberRow) toDomain() domain.Member {
	birth := deref(r.BirthDate)
	// date columns may come back with a time part
	if len(birth) > len(domain.DateLayout) {
		birth = birth[:len(domain.DateLayout)]
	}
	return domain.Member{
		ID:          r.ID,
		Name:        r.Name,
		Phone:       r.Phone,
		BirthDate:   birth,
		IsNewMember: r.IsNewMember,
		Memo:        deref(r.Memo),
		CreatedAt:   parseTime(r.CreatedAt),
	}
}

// MemberStore implements the member store against the members collection.
type MemberStore struct {
	c *Client
}

// NewMemberStore creates a hosted member store.
func NewMemberStore(c *Client) *MemberStore {
	return &MemberStore{c: c}
}

var _ memberStore.Store = (*MemberStore)(nil)

// GetByID retrieves a Member by its ID.
// POST: Returns the entity or storage.ErrNotFound
func (s *MemberStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	var rows []memberRow
	q := url.Values{"select": {"*"}, "id": {"eq." + id}, "limit": {"1"}}
	if err := s.c.selectRows(ctx, membersTable, q, &rows); err != nil {
		return domain.Member{}, err
	}
	if len(rows) == 0 {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// Insert adds a new Member; a taken phone yields storage.ErrDuplicate.
func (s *MemberStore) Insert(ctx context.Context, m domain.Member) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return s.c.insert(ctx, membersTable, toMemberRow(m))
}

// Update overwrites the editable fields of an existing Member.
func (s *MemberStore) Update(ctx context.Context, m domain.Member) error {
	patch := map[string]any{
		"name":          m.Name,
		"phone":         m.Phone,
		"birth_date":    optional(m.BirthDate),
		"is_new_member": m.IsNewMember,
		"memo":          optional(m.Memo),
	}
	return s.c.mutate(ctx, http.MethodPatch, membersTable, m.ID, patch)
}

// Delete removes a Member.
func (s *MemberStore) Delete(ctx context.Context, id string) error {
	return s.c.mutate(ctx, http.MethodDelete, membersTable, id, nil)
}

func memberQuery(filter memberStore.ListFilter) url.Values {
	q := url.Values{}
	if search := strings.TrimSpace(filter.Search); search != "" {
		// PostgREST reserves commas and parentheses inside or=(...)
		search = strings.NewReplacer(",", " ", "(", " ", ")", " ").Replace(search)
		q.Set("or", fmt.Sprintf("(name.ilike.*%s*,phone.ilike.*%s*)", search, search))
	}
	return q
}

// List returns members ordered by name.
func (s *MemberStore) List(ctx context.Context, filter memberStore.ListFilter) ([]domain.Member, error) {
	q := memberQuery(filter)
	q.Set("select", "*")
	q.Set("order", "name.asc,id.asc")
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
		q.Set("offset", strconv.Itoa(filter.Offset))
		return s.page(ctx, q)
	}
	return s.list(ctx, q)
}

// Count returns the number of members matching filter, ignoring paging.
func (s *MemberStore) Count(ctx context.Context, filter memberStore.ListFilter) (int, error) {
	return s.c.count(ctx, membersTable, memberQuery(filter))
}

// ListByCreation returns every member in created_at, id order.
func (s *MemberStore) ListByCreation(ctx context.Context) ([]domain.Member, error) {
	return s.list(ctx, url.Values{"select": {"*"}, "order": {"created_at.asc,id.asc"}})
}

// page fetches the single page q asks for.
func (s *MemberStore) page(ctx context.Context, q url.Values) ([]domain.Member, error) {
	var rows []memberRow
	if err := s.c.selectRows(ctx, membersTable, q, &rows); err != nil {
		return nil, err
	}
	return membersOf(rows), nil
}

// list fetches every row matching q.
func (s *MemberStore) list(ctx context.Context, q url.Values) ([]domain.Member, error) {
	rows, err := selectAll[memberRow](ctx, s.c, membersTable, q)
	if err != nil {
		return nil, err
	}
	return membersOf(rows), nil
}

func membersOf(rows []memberRow) []domain.Member {
	out := make([]domain.Member, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
