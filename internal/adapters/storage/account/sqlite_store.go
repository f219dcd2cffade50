package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	domain "yople/internal/domain/account"
)

const columns = "id, email, name, password_hash, role, approved, created_at, failed_logins, locked_until"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var a domain.Account
	var approved int
	var createdAt string
	var lockedUntil sql.NullString
	if err := scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &approved, &createdAt, &a.FailedLogins, &lockedUntil); err != nil {
		return domain.Account{}, err
	}
	a.Approved = approved != 0
	if t, err := storage.ParseTime(createdAt); err == nil {
		a.CreatedAt = t
	}
	if lockedUntil.Valid {
		if t, err := storage.ParseTime(lockedUntil.String); err == nil {
			a.LockedUntil = t
		}
	}
	return a, nil
}

func lockedValue(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return storage.FormatTime(t)
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM users WHERE "+where+" = ?", arg)
	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("account %s: %w", arg, storage.ErrNotFound)
	}
	return a, err
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, "id", id)
}

// GetByEmail retrieves an Account by email, case-insensitively.
// PRE: email is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// Insert adds a new Account.
// PRE: entity has been validated and carries an ID
// POST: a taken email yields storage.ErrDuplicate
func (s *SQLiteStore) Insert(ctx context.Context, a domain.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, strings.ToLower(a.Email), a.Name, a.PasswordHash, a.Role, boolInt(a.Approved),
		storage.FormatTime(a.CreatedAt), a.FailedLogins, lockedValue(a.LockedUntil),
	)
	return storage.WrapWriteError("insert account", err)
}

// Update persists mutable account state: profile, role, approval and lockout.
// PRE: entity exists
// POST: storage.ErrNotFound when no row matched
func (s *SQLiteStore) Update(ctx context.Context, a domain.Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, password_hash = ?, role = ?, approved = ?, failed_logins = ?, locked_until = ?
		WHERE id = ?`,
		a.Name, a.PasswordHash, a.Role, boolInt(a.Approved), a.FailedLogins, lockedValue(a.LockedUntil), a.ID,
	)
	if err != nil {
		return storage.WrapWriteError("update account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %s: %w", a.ID, storage.ErrNotFound)
	}
	return nil
}

// List returns accounts ordered by creation time.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Account, error) {
	query := "SELECT " + columns + " FROM users"
	if filter.PendingOnly {
		query += " WHERE approved = 0"
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
