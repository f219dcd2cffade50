package web

import (
	"net/http"
	"strconv"
	"time"

	"yople/internal/adapters/http/middleware"
	"yople/internal/application/orchestrators"
	"yople/internal/application/projections"
	domainAttendance "yople/internal/domain/attendance"
)

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func localNow() time.Time {
	return timeNow().In(location)
}

// handleAttendanceSummaries handles GET /api/attendance?year=YYYY
func handleAttendanceSummaries(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(r, "year", localNow().Year())
	if !ok {
		badRequest(w, "연도가 올바르지 않습니다.")
		return
	}
	result, err := projections.QueryGetAttendanceSummaries(r.Context(), projections.GetAttendanceSummariesQuery{Year: year}, projections.GetAttendanceSummariesDeps{
		AttendanceStore: stores.AttendanceStore,
		VisitorStore:    stores.VisitorStore,
		MemberStore:     stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAttendanceGrid handles GET /api/attendance/grid?year=YYYY&month=M
func handleAttendanceGrid(w http.ResponseWriter, r *http.Request) {
	now := localNow()
	year, ok := queryInt(r, "year", now.Year())
	if !ok {
		badRequest(w, "연도가 올바르지 않습니다.")
		return
	}
	month, ok := queryInt(r, "month", int(now.Month()))
	if !ok || month > 12 {
		badRequest(w, "월이 올바르지 않습니다.")
		return
	}
	result, err := projections.QueryGetAttendanceGrid(r.Context(), projections.GetAttendanceGridQuery{Year: year, Month: time.Month(month)}, projections.GetAttendanceGridDeps{
		AttendanceStore: stores.AttendanceStore,
		MemberStore:     stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// pathDate returns the {date} path value when it is a real YYYY-MM-DD day.
func pathDate(r *http.Request) (string, bool) {
	date := r.PathValue("date")
	if _, err := time.Parse(domainAttendance.DateLayout, date); err != nil {
		return "", false
	}
	return date, true
}

// handleAttendanceDetail handles GET /api/attendance/{date}
func handleAttendanceDetail(w http.ResponseWriter, r *http.Request) {
	date, ok := pathDate(r)
	if !ok {
		badRequest(w, domainAttendance.ErrBadDate.Error())
		return
	}
	result, err := projections.QueryGetAttendanceDetail(r.Context(), projections.GetAttendanceDetailQuery{Date: date}, projections.GetAttendanceDetailDeps{
		AttendanceStore: stores.AttendanceStore,
		VisitorStore:    stores.VisitorStore,
		MemberStore:     stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func attendanceAdminDeps() orchestrators.AttendanceAdminDeps {
	return orchestrators.AttendanceAdminDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		Now:             timeNow,
	}
}

// attendanceView is an attendance entry as the dashboard sees it.
type attendanceView struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	Date        string    `json:"date"`
	CheckInTime time.Time `json:"check_in_time"`
}

func viewAttendance(a domainAttendance.Attendance) attendanceView {
	return attendanceView{ID: a.ID, MemberID: a.MemberID, Date: a.Date, CheckInTime: a.CreatedAt}
}

type addAttendanceRequest struct {
	MemberID string `json:"member_id"`
}

// handleAddAttendance handles POST /api/attendance/{date}
func handleAddAttendance(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	date, ok := pathDate(r)
	if !ok {
		badRequest(w, domainAttendance.ErrBadDate.Error())
		return
	}
	var in addAttendanceRequest
	if err := strictDecode(r, &in); err != nil || in.MemberID == "" {
		badRequest(w, "청년을 선택하세요.")
		return
	}

	a, err := orchestrators.ExecuteAddAttendance(r.Context(), orchestrators.AddAttendanceInput{
		Date:      date,
		MemberID:  in.MemberID,
		AccountID: session.AccountID,
	}, attendanceAdminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, viewAttendance(a))
}

type editCheckInTimeRequest struct {
	Time string `json:"time"`
}

// handleEditCheckInTime handles PATCH /api/attendance/entry/{id}
func handleEditCheckInTime(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	var in editCheckInTimeRequest
	if err := strictDecode(r, &in); err != nil {
		badRequest(w, domainAttendance.ErrBadTime.Error())
		return
	}

	a, err := orchestrators.ExecuteEditCheckInTime(r.Context(), orchestrators.EditCheckInTimeInput{
		AttendanceID: r.PathValue("id"),
		Time:         in.Time,
		AccountID:    session.AccountID,
	}, attendanceAdminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewAttendance(a))
}

// handleDeleteAttendance handles DELETE /api/attendance/entry/{id}
func handleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	err := orchestrators.ExecuteDeleteAttendance(r.Context(), orchestrators.DeleteAttendanceInput{
		AttendanceID: r.PathValue("id"),
		AccountID:    session.AccountID,
	}, attendanceAdminDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
