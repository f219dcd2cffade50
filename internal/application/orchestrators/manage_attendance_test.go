package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"yople/internal/adapters/storage"
	"yople/internal/domain/attendance"
	"yople/internal/domain/member"
)

func adminDeps(entries *memAttendance) AttendanceAdminDeps {
	return AttendanceAdminDeps{
		MemberStore:     &memRoster{members: []member.Member{{ID: "m1", Name: "홍길동", Phone: "1"}}},
		AttendanceStore: entries,
		GenerateID:      sequentialIDs("att"),
		Now:             fixedClock(time.Date(2025, 1, 6, 1, 2, 3, 0, time.UTC)),
	}
}

func TestAddAttendance(t *testing.T) {
	entries := &memAttendance{}
	deps := adminDeps(entries)
	ctx := context.Background()

	a, err := ExecuteAddAttendance(ctx, AddAttendanceInput{Date: "2025-01-05", MemberID: "m1"}, deps)
	if err != nil {
		t.Fatalf("ExecuteAddAttendance: %v", err)
	}
	if a.ID != "att-1" || a.Date != "2025-01-05" {
		t.Errorf("attendance = %+v", a)
	}

	_, err = ExecuteAddAttendance(ctx, AddAttendanceInput{Date: "2025-01-05", MemberID: "m1"}, deps)
	if !errors.Is(err, attendance.ErrDuplicate) {
		t.Errorf("duplicate err = %v", err)
	}
	if attendance.ErrDuplicate.Error() != "이미 이 날 출석 처리된 청년입니다." {
		t.Errorf("duplicate message = %q", attendance.ErrDuplicate.Error())
	}

	if _, err := ExecuteAddAttendance(ctx, AddAttendanceInput{Date: "2025-13-01", MemberID: "m1"}, deps); !errors.Is(err, attendance.ErrBadDate) {
		t.Errorf("bad date err = %v", err)
	}
	if _, err := ExecuteAddAttendance(ctx, AddAttendanceInput{Date: "2025-01-05", MemberID: "ghost"}, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown member err = %v", err)
	}
}

func TestEditCheckInTime(t *testing.T) {
	entries := &memAttendance{entries: []attendance.Attendance{
		{ID: "a1", MemberID: "m1", Date: "2025-01-05", CreatedAt: time.Date(2025, 1, 6, 3, 0, 0, 0, time.UTC)},
	}}
	deps := adminDeps(entries)

	got, err := ExecuteEditCheckInTime(context.Background(), EditCheckInTimeInput{AttendanceID: "a1", Time: "09:30"}, deps)
	if err != nil {
		t.Fatalf("ExecuteEditCheckInTime: %v", err)
	}
	want := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(want) || !entries.entries[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", entries.entries[0].CreatedAt, want)
	}

	for _, bad := range []string{"24:00", "12:60", "9", "aa:bb"} {
		if _, err := ExecuteEditCheckInTime(context.Background(), EditCheckInTimeInput{AttendanceID: "a1", Time: bad}, deps); !errors.Is(err, attendance.ErrBadTime) {
			t.Errorf("time %q err = %v", bad, err)
		}
	}
	if _, err := ExecuteEditCheckInTime(context.Background(), EditCheckInTimeInput{AttendanceID: "zz", Time: "10:00"}, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing entry err = %v", err)
	}
}

func TestDeleteAttendance(t *testing.T) {
	entries := &memAttendance{entries: []attendance.Attendance{{ID: "a1", MemberID: "m1", Date: "2025-01-05"}}}
	deps := adminDeps(entries)

	if err := ExecuteDeleteAttendance(context.Background(), DeleteAttendanceInput{AttendanceID: "a1"}, deps); err != nil {
		t.Fatalf("ExecuteDeleteAttendance: %v", err)
	}
	if len(entries.entries) != 0 {
		t.Errorf("entries = %+v", entries.entries)
	}
	if err := ExecuteDeleteAttendance(context.Background(), DeleteAttendanceInput{AttendanceID: "a1"}, deps); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
