package web

import (
	"net/http"

	"yople/internal/adapters/http/middleware"
	domainAccount "yople/internal/domain/account"
)

// registerRoutes mounts every API endpoint on mux.
// Kiosk endpoints are public; the dashboard needs an approved session and
// account approval needs an owner or admin.
func registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	approved := func(h http.HandlerFunc) http.Handler { return middleware.RequireApproved(h) }
	approver := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole(domainAccount.RoleOwner, domainAccount.RoleAdmin)(h)
	}

	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /api/csrf", handleCSRFToken)

	// Kiosk
	mux.HandleFunc("POST /api/checkin/lookup", handleKioskLookup)
	mux.HandleFunc("POST /api/checkin", handleCheckInMember)
	mux.HandleFunc("POST /api/checkin/visitor", handleVisitorCheckIn)

	// Accounts
	mux.HandleFunc("POST /api/signup", handleSignUp)
	mux.HandleFunc("POST /login", handleLogin)
	mux.HandleFunc("POST /logout", handleLogout)
	mux.Handle("GET /api/me", authed(handleMe))
	mux.Handle("POST /api/me/password", authed(handleChangePassword))

	// Attendance
	mux.Handle("GET /api/attendance", approved(handleAttendanceSummaries))
	mux.Handle("GET /api/attendance/grid", approved(handleAttendanceGrid))
	mux.Handle("GET /api/attendance/template", approved(handleAttendanceTemplate))
	mux.Handle("POST /api/attendance/import", approved(handleImportAttendance))
	mux.Handle("GET /api/attendance/{date}", approved(handleAttendanceDetail))
	mux.Handle("POST /api/attendance/{date}", approved(handleAddAttendance))
	mux.Handle("PATCH /api/attendance/entry/{id}", approved(handleEditCheckInTime))
	mux.Handle("DELETE /api/attendance/entry/{id}", approved(handleDeleteAttendance))

	// Roster
	mux.Handle("GET /api/members", approved(handleMemberList))
	mux.Handle("POST /api/members", approved(handleRegisterMember))
	mux.Handle("GET /api/members/inactive", approved(handleInactiveMembers))
	mux.Handle("GET /api/members/template", approved(handleMemberTemplate))
	mux.Handle("POST /api/members/import", approved(handleImportMembers))
	mux.Handle("PUT /api/members/{id}", approved(handleUpdateMember))
	mux.Handle("DELETE /api/members/{id}", approved(handleDeleteMember))

	// Approvals
	mux.Handle("GET /api/approvals", approver(handlePendingApprovals))
	mux.Handle("POST /api/approvals/{id}", approver(handleApproveAccount))
	mux.Handle("GET /api/admin/perf", approver(handleAdminPerf))
}
