package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"yople/internal/adapters/email"
	"yople/internal/adapters/http/middleware"
	"yople/internal/adapters/storage"
	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	visitorStore "yople/internal/adapters/storage/visitor"
	domainMember "yople/internal/domain/member"
)

var kst = time.FixedZone("KST", 9*60*60)

// sundayMorning is 2025-01-05 10:00 in Seoul.
var sundayMorning = time.Date(2025, 1, 5, 10, 0, 0, 0, kst)

// setupStores points the package globals at a fresh in-memory database.
func setupStores(t *testing.T) *Stores {
	t.Helper()
	db, err := storage.OpenAndMigrate(context.Background(), storage.MemoryPath)
	if err != nil {
		t.Fatalf("OpenAndMigrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &Stores{
		MemberStore:     memberStore.NewSQLiteStore(db),
		AttendanceStore: attendanceStore.NewSQLiteStore(db),
		VisitorStore:    visitorStore.NewSQLiteStore(db),
		AccountStore:    accountStore.NewSQLiteStore(db),
	}
	stores = s
	sessions = middleware.NewSessionStore()
	emailSender = nil
	perfCollector = nil
	location = kst
	timeNow = func() time.Time { return sundayMorning }
	t.Cleanup(func() {
		timeNow = time.Now
		location = time.UTC
	})
	return s
}

func addMember(t *testing.T, s *Stores, id, name, phone, birth string) {
	t.Helper()
	m := domainMember.Member{ID: id, Name: name, Phone: phone, BirthDate: birth, CreatedAt: sundayMorning.Add(-time.Hour)}
	if err := s.MemberStore.Insert(context.Background(), m); err != nil {
		t.Fatalf("insert member %s: %v", id, err)
	}
}

// routed serves req through the real route table, without the outer middleware.
func routed(req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	registerRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, url, body string) *http.Request {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, url, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = jsonRequest(method, url, body)
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	return req.WithContext(middleware.ContextWithSession(req.Context(), sess))
}

var (
	ownerSession = middleware.Session{AccountID: "owner-1", Email: "owner@yople.kr", Name: "목사님", Role: "owner", Approved: true}
	staffSession = middleware.Session{AccountID: "staff-1", Email: "staff@yople.kr", Name: "간사", Role: "staff", Approved: true}
	pendingStaff = middleware.Session{AccountID: "staff-2", Email: "new@yople.kr", Name: "새간사", Role: "staff"}
)

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeJSON[errorBody](t, rec).Error
}

type recordingSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
}

func (s *recordingSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, req)
	return email.SendResult{MessageID: "msg-1"}, nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// bodyOf copies a recorder body for a second read.
func bodyOf(rec *httptest.ResponseRecorder) *bytes.Reader {
	return bytes.NewReader(rec.Body.Bytes())
}
