package web

import (
	"context"
	"net/http"
	"testing"
	"time"

	"yople/internal/application/projections"
	domainAttendance "yople/internal/domain/attendance"
)

func addAttendance(t *testing.T, s *Stores, id, memberID, date string) {
	t.Helper()
	d, _ := time.Parse(domainAttendance.DateLayout, date)
	a := domainAttendance.Attendance{ID: id, MemberID: memberID, Date: date, CreatedAt: d.Add(10 * time.Hour)}
	if err := s.AttendanceStore.Insert(context.Background(), a); err != nil {
		t.Fatalf("insert attendance %s: %v", id, err)
	}
}

func seedHistory(t *testing.T) *Stores {
	t.Helper()
	s := setupStores(t)
	addMember(t, s, "m1", "홍길동", "010-1234-5678", "1995-03-02")
	addMember(t, s, "m2", "김영희", "010-2222-1111", "1990-01-01")
	addAttendance(t, s, "a1", "m1", "2025-01-05")
	addAttendance(t, s, "a2", "m1", "2025-01-12")
	addAttendance(t, s, "a3", "m2", "2024-12-29")
	return s
}

func TestAttendanceRoutes_RequireApprovedSession(t *testing.T) {
	seedHistory(t)
	paths := []string{"/api/attendance", "/api/attendance/grid", "/api/attendance/2025-01-05", "/api/members"}
	for _, p := range paths {
		if rec := routed(authRequest("GET", p, "", pendingStaff)); rec.Code != http.StatusForbidden {
			t.Errorf("pending GET %s = %d, want 403", p, rec.Code)
		}
		if rec := routed(authRequest("GET", p, "", staffSession)); rec.Code != http.StatusOK {
			t.Errorf("approved GET %s = %d, want 200", p, rec.Code)
		}
	}
}

func TestHandleAttendanceSummaries(t *testing.T) {
	seedHistory(t)

	rec := routed(authRequest("GET", "/api/attendance?year=2025", "", staffSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[projections.GetAttendanceSummariesResult](t, rec)
	if len(got.Summaries) != 2 || got.Summaries[0].Date != "2025-01-12" {
		t.Fatalf("summaries = %+v", got.Summaries)
	}
	if len(got.Years) != 2 || got.Years[0] != 2025 || got.Years[1] != 2024 {
		t.Errorf("years = %v, want [2025 2024]", got.Years)
	}

	// defaults to the current year in Seoul
	rec = routed(authRequest("GET", "/api/attendance", "", staffSession))
	if got := decodeJSON[projections.GetAttendanceSummariesResult](t, rec); got.Year != 2025 {
		t.Errorf("default year = %d, want 2025", got.Year)
	}

	rec = routed(authRequest("GET", "/api/attendance?year=abc", "", staffSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad year status = %d, want 400", rec.Code)
	}
}

func TestHandleAttendanceGrid(t *testing.T) {
	seedHistory(t)

	rec := routed(authRequest("GET", "/api/attendance/grid?year=2025&month=1", "", staffSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[projections.GetAttendanceGridResult](t, rec)
	if len(got.Sundays) != 4 || got.Sundays[0] != "2025-01-05" {
		t.Errorf("sundays = %v", got.Sundays)
	}
	if len(got.Rows) != 2 || got.Rows[0].Name != "김영희" || got.Rows[1].Count != 2 {
		t.Errorf("rows = %+v", got.Rows)
	}

	rec = routed(authRequest("GET", "/api/attendance/grid?year=2025&month=13", "", staffSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("month 13 status = %d, want 400", rec.Code)
	}
}

func TestHandleAttendanceDetail(t *testing.T) {
	seedHistory(t)

	rec := routed(authRequest("GET", "/api/attendance/2025-01-05", "", staffSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON[projections.GetAttendanceDetailResult](t, rec)
	if len(got.Attendees) != 1 || got.Attendees[0].Name != "홍길동" {
		t.Errorf("attendees = %+v", got.Attendees)
	}
	if len(got.Absentees) != 1 || got.Absentees[0].Name != "김영희" {
		t.Errorf("absentees = %+v", got.Absentees)
	}

	rec = routed(authRequest("GET", "/api/attendance/2025-02-30", "", staffSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("impossible date status = %d, want 400", rec.Code)
	}
}

func TestHandleAddAttendance(t *testing.T) {
	seedHistory(t)

	rec := routed(authRequest("POST", "/api/attendance/2025-01-05", `{"member_id":"m2"}`, staffSession))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeJSON[attendanceView](t, rec); got.MemberID != "m2" || got.Date != "2025-01-05" || got.ID == "" {
		t.Errorf("view = %+v", got)
	}

	rec = routed(authRequest("POST", "/api/attendance/2025-01-05", `{"member_id":"m2"}`, staffSession))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != domainAttendance.ErrDuplicate.Error() {
		t.Errorf("message = %q", msg)
	}

	rec = routed(authRequest("POST", "/api/attendance/2025-01-05", `{"member_id":"ghost"}`, staffSession))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown member status = %d, want 404", rec.Code)
	}
}

func TestHandleEditCheckInTime(t *testing.T) {
	seedHistory(t)

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"valid", "a1", `{"time":"09:30"}`, http.StatusOK},
		{"hour out of range", "a1", `{"time":"24:00"}`, http.StatusBadRequest},
		{"not a clock", "a1", `{"time":"nine"}`, http.StatusBadRequest},
		{"unknown entry", "zz", `{"time":"09:30"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := routed(authRequest("PATCH", "/api/attendance/entry/"+tt.id, tt.body, staffSession))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d. Body: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			got := decodeJSON[attendanceView](t, rec)
			want := time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
			if !got.CheckInTime.Equal(want) || got.Date != "2025-01-05" {
				t.Errorf("view = %+v, want %s on 2025-01-05", got, want)
			}
		})
	}
}

func TestHandleDeleteAttendance(t *testing.T) {
	seedHistory(t)

	rec := routed(authRequest("DELETE", "/api/attendance/entry/a1", "", staffSession))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = routed(authRequest("DELETE", "/api/attendance/entry/a1", "", staffSession))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}
