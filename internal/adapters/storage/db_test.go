package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestMigrate_Fresh(t *testing.T) {
	db := openTestDB(t)
	version, err := Migrate(context.Background(), db)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	want := []string{"attendances", "goose_db_version", "members", "users", "visitors"}
	got := tableNames(t, db)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("tables = %v, want %v", got, want)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	v1, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	v2, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if v1 != v2 {
		t.Errorf("version changed: %d -> %d", v1, v2)
	}
}

// TestUniqueViolation checks that both unique keys surface as ErrDuplicate.
func TestUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	if _, err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	now := FormatTime(time.Now())
	insertMember := "INSERT INTO members (id, name, phone, created_at) VALUES (?, ?, ?, ?)"
	if _, err := db.ExecContext(ctx, insertMember, "m1", "홍길동", "010-1234-5678", now); err != nil {
		t.Fatalf("insert member: %v", err)
	}
	_, err := db.ExecContext(ctx, insertMember, "m2", "김영희", "010-1234-5678", now)
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate phone err = %v", err)
	}
	if !errors.Is(WrapWriteError("insert member", err), ErrDuplicate) {
		t.Error("WrapWriteError did not map to ErrDuplicate")
	}

	insertAttendance := "INSERT INTO attendances (id, member_id, date, created_at) VALUES (?, ?, ?, ?)"
	if _, err := db.ExecContext(ctx, insertAttendance, "a1", "m1", "2025-01-05", now); err != nil {
		t.Fatalf("insert attendance: %v", err)
	}
	_, err = db.ExecContext(ctx, insertAttendance, "a2", "m1", "2025-01-05", now)
	if !IsUniqueViolation(err) {
		t.Errorf("duplicate attendance err = %v", err)
	}

	// A dangling member reference is a constraint failure but not a duplicate.
	_, err = db.ExecContext(ctx, insertAttendance, "a3", "missing", "2025-01-05", now)
	if err == nil || IsUniqueViolation(err) {
		t.Errorf("foreign key err = %v", err)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	in := time.Date(2025, 1, 5, 9, 30, 0, 0, time.FixedZone("KST", 9*3600))
	s := FormatTime(in)
	if s != "2025-01-05T00:30:00.000000Z" {
		t.Errorf("FormatTime = %q", s)
	}
	out, err := ParseTime(s)
	if err != nil || !out.Equal(in) {
		t.Errorf("ParseTime = %v, %v", out, err)
	}
	if _, err := ParseTime("2025-01-05T09:30:00+09:00"); err != nil {
		t.Errorf("ParseTime RFC3339: %v", err)
	}
}
