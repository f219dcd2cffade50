package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Open opens the SQLite database at path with WAL, a busy timeout and foreign keys enabled.
// PRE: path is a filesystem path or MemoryPath
// POST: returns a pooled handle; an in-memory handle is pinned to a single connection
func Open(path string) (*sql.DB, error) {
	pragmas := []string{"busy_timeout(5000)", "foreign_keys(1)"}
	if path != MemoryPath {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	dsn := "file:" + path + "?" + q.Encode()
	if path == MemoryPath {
		dsn = MemoryPath + "?" + q.Encode()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == MemoryPath {
		// Every new connection would see a different empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// Migrate applies every pending embedded migration.
// PRE: db is a valid database connection
// POST: schema is at the latest version; returns that version
func Migrate(ctx context.Context, db *sql.DB) (int64, error) {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys, goose.WithSlog(slog.Default()))
	if err != nil {
		return 0, fmt.Errorf("migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("db_event", "event", "migration_applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return provider.GetDBVersion(ctx)
}

// OpenAndMigrate opens path and brings its schema up to date.
func OpenAndMigrate(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	version, err := Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Info("db_event", "event", "schema_ready", "path", strings.TrimSpace(path), "version", version)
	return db, nil
}
