package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	accountStore "yople/internal/adapters/storage/account"
	domain "yople/internal/domain/account"
)

const usersTable = "users"

type userRow struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"password_hash"`
	Role         string  `json:"role"`
	Approved     bool    `json:"approved"`
	CreatedAt    string  `json:"created_at,omitempty"`
	FailedLogins int     `json:"failed_logins"`
	LockedUntil  *string `json:"locked_until"`
}

func toUserRow(a domain.Account) userRow {
	row := userRow{
		ID:           a.ID,
		Email:        strings.ToLower(a.Email),
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Approved:     a.Approved,
		FailedLogins: a.FailedLogins,
	}
	if !a.CreatedAt.IsZero() {
		row.CreatedAt = storage.FormatTime(a.CreatedAt)
	}
	if !a.LockedUntil.IsZero() {
		row.LockedUntil = optional(storage.FormatTime(a.LockedUntil))
	}
	return row
}

func (r userRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Approved:     r.Approved,
		CreatedAt:    parseTime(r.CreatedAt),
		FailedLogins: r.FailedLogins,
		LockedUntil:  parseTime(deref(r.LockedUntil)),
	}
}

// AccountStore implements the account store against the users collection.
type AccountStore struct {
	c *Client
}

// NewAccountStore creates a hosted account store.
func NewAccountStore(c *Client) *AccountStore {
	return &AccountStore{c: c}
}

var _ accountStore.Store = (*AccountStore)(nil)

func (s *AccountStore) getOne(ctx context.Context, column, value string) (domain.Account, error) {
	var rows []userRow
	q := url.Values{"select": {"*"}, column: {"eq." + value}, "limit": {"1"}}
	if err := s.c.selectRows(ctx, usersTable, q, &rows); err != nil {
		return domain.Account{}, err
	}
	if len(rows) == 0 {
		return domain.Account{}, fmt.Errorf("account %s: %w", value, storage.ErrNotFound)
	}
	return rows[0].toDomain(), nil
}

// GetByID retrieves an Account by its ID.
func (s *AccountStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, "id", id)
}

// GetByEmail retrieves an Account by email.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// Insert adds a new Account; a taken email yields storage.ErrDuplicate.
func (s *AccountStore) Insert(ctx context.Context, a domain.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	return s.c.insert(ctx, usersTable, toUserRow(a))
}

// Update persists mutable account state.
func (s *AccountStore) Update(ctx context.Context, a domain.Account) error {
	row := toUserRow(a)
	patch := map[string]any{
		"name":          row.Name,
		"password_hash": row.PasswordHash,
		"role":          row.Role,
		"approved":      row.Approved,
		"failed_logins": row.FailedLogins,
		"locked_until":  row.LockedUntil,
	}
	return s.c.mutate(ctx, http.MethodPatch, usersTable, a.ID, patch)
}

// List returns accounts ordered by creation time.
func (s *AccountStore) List(ctx context.Context, filter accountStore.ListFilter) ([]domain.Account, error) {
	q := url.Values{"select": {"*"}, "order": {"created_at.asc,id.asc"}}
	if filter.PendingOnly {
		q.Set("approved", "eq.false")
	}
	rows, err := selectAll[userRow](ctx, s.c, usersTable, q)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
