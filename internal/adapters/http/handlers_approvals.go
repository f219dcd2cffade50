package web

import (
	"net/http"
	"time"

	"yople/internal/adapters/http/middleware"
	"yople/internal/application/orchestrators"
	"yople/internal/application/projections"
)

// handlePendingApprovals handles GET /api/approvals
func handlePendingApprovals(w http.ResponseWriter, r *http.Request) {
	pending, err := projections.QueryGetPendingApprovals(r.Context(), projections.GetPendingApprovalsDeps{
		AccountStore: stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": pending})
}

// handleApproveAccount handles POST /api/approvals/{id}
// Live sessions of the approved account are upgraded in place, so the user
// does not have to log in again.
func handleApproveAccount(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	acct, err := orchestrators.ExecuteApproveAccount(r.Context(), orchestrators.ApproveAccountInput{
		ApproverID: session.AccountID,
		AccountID:  r.PathValue("id"),
	}, orchestrators.ApproveAccountDeps{
		AccountStore: stores.AccountStore,
		Sender:       emailSender,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	sessions.MarkApproved(acct.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       acct.ID,
		"email":    acct.Email,
		"approved": acct.Approved,
		"message":  "승인되었습니다.",
	})
}

// perfWindow is how far back the perf snapshot looks.
const perfWindow = time.Hour

// handleAdminPerf handles GET /api/admin/perf
// Returns request and query timings of the last hour.
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "성능 수집이 꺼져 있습니다."})
		return
	}
	top, ok := queryInt(r, "top", 10)
	if !ok {
		top = 10
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-perfWindow), top))
}
