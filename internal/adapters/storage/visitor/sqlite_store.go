package visitor

import (
	"context"
	"time"

	"yople/internal/adapters/storage"
	domain "yople/internal/domain/visitor"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new visitor store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

// Insert records one visitor.
// PRE: entity has been validated and carries an ID
func (s *SQLiteStore) Insert(ctx context.Context, v domain.Visitor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO visitors (id, date, created_at) VALUES (?, ?, ?)",
		v.ID, v.Date, storage.FormatTime(v.CreatedAt),
	)
	return storage.WrapWriteError("insert visitor", err)
}

// List returns visitors whose date lies in [from, to]; empty bounds are open.
func (s *SQLiteStore) List(ctx context.Context, from, to string) ([]domain.Visitor, error) {
	if to == "" {
		to = "9999-12-31"
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, created_at FROM visitors WHERE date >= ? AND date <= ? ORDER BY date, created_at", from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Visitor
	for rows.Next() {
		var v domain.Visitor
		var createdAt string
		if err := rows.Scan(&v.ID, &v.Date, &createdAt); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
