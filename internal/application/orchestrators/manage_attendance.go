package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yople/internal/adapters/storage"
	"yople/internal/domain/attendance"
	"yople/internal/domain/member"
)

// MemberGetter fetches a member by ID.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// AttendanceEditor is the attendance store surface used by dashboard edits.
type AttendanceEditor interface {
	Insert(ctx context.Context, a attendance.Attendance) error
	GetByID(ctx context.Context, id string) (attendance.Attendance, error)
	Update(ctx context.Context, a attendance.Attendance) error
	Delete(ctx context.Context, id string) error
}

// AttendanceAdminDeps holds dependencies for the dashboard attendance edits.
type AttendanceAdminDeps struct {
	MemberStore     MemberGetter
	AttendanceStore AttendanceEditor
	GenerateID      func() string
	Now             func() time.Time
}

// AddAttendanceInput names the day and member to mark present.
type AddAttendanceInput struct {
	Date      string
	MemberID  string
	AccountID string
}

// ExecuteAddAttendance marks a member present on a date from the dashboard.
// PRE: Date is YYYY-MM-DD; MemberID names an existing member
// POST: one attendance exists for (MemberID, Date); attendance.ErrDuplicate when it already did
func ExecuteAddAttendance(ctx context.Context, input AddAttendanceInput, deps AttendanceAdminDeps) (attendance.Attendance, error) {
	a := attendance.Attendance{
		ID:        newID(deps.GenerateID),
		MemberID:  input.MemberID,
		Date:      input.Date,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := a.Validate(); err != nil {
		return attendance.Attendance{}, err
	}
	if _, err := deps.MemberStore.GetByID(ctx, input.MemberID); err != nil {
		return attendance.Attendance{}, fmt.Errorf("member %s: %w", input.MemberID, err)
	}

	if err := deps.AttendanceStore.Insert(ctx, a); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return attendance.Attendance{}, attendance.ErrDuplicate
		}
		return attendance.Attendance{}, fmt.Errorf("add attendance: %w", err)
	}
	slog.Info("attendance_event", "event", "attendance_added", "attendance_id", a.ID, "member_id", a.MemberID, "date", a.Date, "account_id", input.AccountID)
	return a, nil
}

// DeleteAttendanceInput names the entry to remove.
type DeleteAttendanceInput struct {
	AttendanceID string
	AccountID    string
}

// ExecuteDeleteAttendance removes one attendance entry.
// POST: the entry no longer exists; storage.ErrNotFound when it never did
func ExecuteDeleteAttendance(ctx context.Context, input DeleteAttendanceInput, deps AttendanceAdminDeps) error {
	if err := deps.AttendanceStore.Delete(ctx, input.AttendanceID); err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	slog.Info("attendance_event", "event", "attendance_deleted", "attendance_id", input.AttendanceID, "account_id", input.AccountID)
	return nil
}

// EditCheckInTimeInput carries the new wall-clock time of a check-in.
type EditCheckInTimeInput struct {
	AttendanceID string
	Time         string // HH:MM
	AccountID    string
}

// ExecuteEditCheckInTime rewrites the check-in time of an entry to HH:MM on its own date.
// PRE: Time is HH:MM with 0 <= HH <= 23 and 0 <= MM <= 59
// POST: CreatedAt is <Date>T<HH:MM>:00Z; the date itself never changes
func ExecuteEditCheckInTime(ctx context.Context, input EditCheckInTimeInput, deps AttendanceAdminDeps) (attendance.Attendance, error) {
	if _, _, err := attendance.ParseClock(input.Time); err != nil {
		return attendance.Attendance{}, err
	}
	a, err := deps.AttendanceStore.GetByID(ctx, input.AttendanceID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("get attendance: %w", err)
	}
	if err := a.SetCheckInTime(input.Time); err != nil {
		return attendance.Attendance{}, err
	}
	if err := deps.AttendanceStore.Update(ctx, a); err != nil {
		return attendance.Attendance{}, fmt.Errorf("update attendance: %w", err)
	}
	slog.Info("attendance_event", "event", "checkin_time_edited", "attendance_id", a.ID, "time", input.Time, "account_id", input.AccountID)
	return a, nil
}
