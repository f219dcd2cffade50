package web

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"

	"yople/internal/adapters/http/middleware"
	"yople/internal/adapters/spreadsheet"
	"yople/internal/application/orchestrators"
)

// maxUploadBytes caps an uploaded workbook.
const maxUploadBytes = 10 << 20

const msgNoFile = "파일을 선택하세요."

// uploadedFile opens the multipart "file" field.
// ok is false once a 400 response has been written.
func uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "파일이 너무 큽니다. (최대 10MB)"})
			return nil, "", false
		}
		badRequest(w, msgNoFile)
		return nil, "", false
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, msgNoFile)
		return nil, "", false
	}
	return f, header.Filename, true
}

// handleImportAttendance handles POST /api/attendance/import (multipart "file")
// Row problems come back inside the summary; only an unreadable file or an empty sheet is a 400.
func handleImportAttendance(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	f, filename, ok := uploadedFile(w, r)
	if !ok {
		return
	}
	defer f.Close()

	summary, err := orchestrators.ExecuteImportAttendance(r.Context(), orchestrators.ImportAttendanceInput{
		Reader:    f,
		Filename:  filename,
		AccountID: session.AccountID,
	}, orchestrators.ImportAttendanceDeps{
		MemberStore:     stores.MemberStore,
		AttendanceStore: stores.AttendanceStore,
		Now:             timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary.View())
}

// handleImportMembers handles POST /api/members/import (multipart "file")
func handleImportMembers(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSessionFromContext(r.Context())
	f, filename, ok := uploadedFile(w, r)
	if !ok {
		return
	}
	defer f.Close()

	summary, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Reader:    f,
		Filename:  filename,
		AccountID: session.AccountID,
	}, orchestrators.ImportMembersDeps{
		MemberStore: stores.MemberStore,
		Now:         timeNow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary.View())
}

// handleAttendanceTemplate handles GET /api/attendance/template
func handleAttendanceTemplate(w http.ResponseWriter, r *http.Request) {
	writeTemplate(w, spreadsheet.AttendanceTemplate)
}

// handleMemberTemplate handles GET /api/members/template
func handleMemberTemplate(w http.ResponseWriter, r *http.Request) {
	writeTemplate(w, spreadsheet.MemberTemplate)
}

// writeTemplate renders the workbook fully before any header goes out,
// so a render failure can still become a clean 500.
func writeTemplate(w http.ResponseWriter, t spreadsheet.Template) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf, t); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(t.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
