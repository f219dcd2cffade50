package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	domain "yople/internal/domain/member"
)

const columns = "id, name, phone, birth_date, is_new_member, memo, created_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (domain.Member, error) {
	var m domain.Member
	var birth, memo sql.NullString
	var isNew int
	var createdAt string
	if err := row.Scan(&m.ID, &m.Name, &m.Phone, &birth, &isNew, &memo, &createdAt); err != nil {
		return domain.Member{}, err
	}
	m.BirthDate = birth.String
	m.Memo = memo.String
	m.IsNewMember = isNew != 0
	if t, err := storage.ParseTime(createdAt); err == nil {
		m.CreatedAt = t
	}
	return m, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return m, err
}

// Insert adds a new Member.
// PRE: entity has been validated and carries an ID
// POST: row is stored; a taken phone yields storage.ErrDuplicate
func (s *SQLiteStore) Insert(ctx context.Context, m domain.Member) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, m.Phone, nullable(m.BirthDate), boolInt(m.IsNewMember), nullable(m.Memo), storage.FormatTime(m.CreatedAt),
	)
	return storage.WrapWriteError("insert member", err)
}

// Update overwrites the editable fields of an existing Member.
// PRE: entity has been validated
// POST: storage.ErrNotFound when no row matched; storage.ErrDuplicate when the phone is taken
func (s *SQLiteStore) Update(ctx context.Context, m domain.Member) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET name = ?, phone = ?, birth_date = ?, is_new_member = ?, memo = ? WHERE id = ?",
		m.Name, m.Phone, nullable(m.BirthDate), boolInt(m.IsNewMember), nullable(m.Memo), m.ID,
	)
	if err != nil {
		return storage.WrapWriteError("update member", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %s: %w", m.ID, storage.ErrNotFound)
	}
	return nil
}

// Delete removes a Member and, through the foreign key, its attendance.
// PRE: id is non-empty
// POST: storage.ErrNotFound when no row matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func whereClause(filter ListFilter) (string, []any) {
	q := strings.TrimSpace(filter.Search)
	if q == "" {
		return "", nil
	}
	like := "%" + q + "%"
	return " WHERE name LIKE ? OR phone LIKE ?", []any{like, like}
}

// List returns members ordered by name.
// PRE: filter.Limit >= 0
// POST: at most filter.Limit rows when Limit > 0
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	where, args := whereClause(filter)
	query := "SELECT " + columns + " FROM members" + where + " ORDER BY name, id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}
	return s.query(ctx, query, args...)
}

// Count returns the number of members matching filter, ignoring paging.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := whereClause(filter)
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members"+where, args...).Scan(&n)
	return n, err
}

// ListByCreation returns every member in created_at, id order.
func (s *SQLiteStore) ListByCreation(ctx context.Context) ([]domain.Member, error) {
	return s.query(ctx, "SELECT "+columns+" FROM members ORDER BY created_at, id")
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
