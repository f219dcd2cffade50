package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yople/internal/adapters/storage"
	domain "yople/internal/domain/attendance"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// Insert records one attendance entry.
// PRE: entity has been validated and carries an ID
// POST: a second entry for the same member and date yields storage.ErrDuplicate
func (s *SQLiteStore) Insert(ctx context.Context, a domain.Attendance) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO attendances (id, member_id, date, created_at) VALUES (?, ?, ?, ?)",
		a.ID, a.MemberID, a.Date, storage.FormatTime(a.CreatedAt),
	)
	return storage.WrapWriteError("insert attendance", err)
}

// GetByID retrieves an entry by its ID.
// PRE: id is non-empty
// POST: Returns the entity or storage.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Attendance, error) {
	var a domain.Attendance
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, member_id, date, created_at FROM attendances WHERE id = ?", id,
	).Scan(&a.ID, &a.MemberID, &a.Date, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attendance{}, fmt.Errorf("attendance %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return domain.Attendance{}, err
	}
	a.CreatedAt, err = storage.ParseTime(createdAt)
	return a, err
}

// Update rewrites the check-in time of an entry.
// PRE: entity exists
// POST: storage.ErrNotFound when no row matched
func (s *SQLiteStore) Update(ctx context.Context, a domain.Attendance) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE attendances SET created_at = ? WHERE id = ?", storage.FormatTime(a.CreatedAt), a.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attendance %s: %w", a.ID, storage.ErrNotFound)
	}
	return nil
}

// Delete removes an entry.
// PRE: id is non-empty
// POST: storage.ErrNotFound when no row matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM attendances WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("attendance %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// List returns entries in the filter's date range, ordered by date then check-in time.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error) {
	var conds []string
	var args []any
	if filter.From != "" {
		conds = append(conds, "date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		conds = append(conds, "date <= ?")
		args = append(args, filter.To)
	}
	if filter.MemberID != "" {
		conds = append(conds, "member_id = ?")
		args = append(args, filter.MemberID)
	}
	query := "SELECT id, member_id, date, created_at FROM attendances"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date, created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Attendance
	for rows.Next() {
		var a domain.Attendance
		var createdAt string
		if err := rows.Scan(&a.ID, &a.MemberID, &a.Date, &createdAt); err != nil {
			return nil, err
		}
		if a.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
