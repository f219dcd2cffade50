package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"

	"yople/internal/adapters/spreadsheet"
	"yople/internal/adapters/storage"
	"yople/internal/application/orchestrators"
	domainAccount "yople/internal/domain/account"
	domainAttendance "yople/internal/domain/attendance"
	"yople/internal/domain/bulkimport"
	domainMember "yople/internal/domain/member"
)

// internalError logs the error and sends a generic 500 response.
// Use this instead of exposing err.Error() to clients.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode_response_failed", "error", err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// statusFor maps the sentinel errors handlers may surface to an HTTP status.
// Zero means the error is internal and must not reach the client.
func statusFor(err error) int {
	var decodeErr *spreadsheet.DecodeError
	switch {
	case errors.As(err, &decodeErr),
		errors.Is(err, bulkimport.ErrNoAttendanceRows),
		errors.Is(err, bulkimport.ErrNoMemberRows),
		errors.Is(err, domainMember.ErrRequiredFields),
		errors.Is(err, domainMember.ErrNameTooLong),
		errors.Is(err, domainMember.ErrMemoTooLong),
		errors.Is(err, domainMember.ErrBadBirthDate),
		errors.Is(err, domainAttendance.ErrNoMember),
		errors.Is(err, domainAttendance.ErrBadDate),
		errors.Is(err, domainAttendance.ErrBadTime),
		errors.Is(err, domainAccount.ErrEmptyEmail),
		errors.Is(err, domainAccount.ErrEmailTooLong),
		errors.Is(err, domainAccount.ErrInvalidEmail),
		errors.Is(err, domainAccount.ErrEmptyPassword),
		errors.Is(err, domainAccount.ErrPasswordTooShort),
		errors.Is(err, orchestrators.ErrInvalidDigits),
		errors.Is(err, orchestrators.ErrPasswordFieldsEmpty),
		errors.Is(err, orchestrators.ErrNewPasswordSame),
		errors.Is(err, orchestrators.ErrCurrentPasswordWrong):
		return http.StatusBadRequest
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainAccount.ErrCannotApprove),
		errors.Is(err, domainAccount.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainMember.ErrPhoneTaken),
		errors.Is(err, domainAttendance.ErrDuplicate),
		errors.Is(err, domainAccount.ErrAlreadyApproved),
		errors.Is(err, orchestrators.ErrEmailAlreadyExists),
		errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, orchestrators.ErrLookupFailed),
		errors.Is(err, orchestrators.ErrCheckInFailed),
		errors.Is(err, orchestrators.ErrVisitorFailed):
		// user-facing kiosk failures; the cause is already logged
		return http.StatusServiceUnavailable
	}
	return 0
}

// writeError sends a known error with its mapped status, anything else as a 500.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == 0 {
		internalError(w, err)
		return
	}
	msg := err.Error()
	if status == http.StatusNotFound {
		msg = "찾을 수 없습니다."
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCSRFToken handles GET /api/csrf
// The dashboard sends the token back in the X-CSRF-Token header on multipart uploads.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": csrf.Token(r)})
}
