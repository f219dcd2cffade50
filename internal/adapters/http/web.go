package web

import (
	"net/http"
	"time"

	"yople/internal/adapters/email"
	"yople/internal/adapters/http/middleware"
	"yople/internal/adapters/http/perf"
	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	visitorStore "yople/internal/adapters/storage/visitor"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore     memberStore.Store
	AttendanceStore attendanceStore.Store
	VisitorStore    visitorStore.Store
	AccountStore    accountStore.Store
}

// Options configures NewMux.
type Options struct {
	StaticDir      string         // served at "/"; empty disables static files
	CSRFKey        []byte         // 32 bytes
	SecureCookies  bool           // production: Secure cookies and strict CSRF Referer checks
	TrustedOrigins []string       // extra origins allowed by the CSRF check
	Location       *time.Location // "today" for the kiosk; nil means UTC
	SlowRequestMs  int
	Collector      *perf.Collector
	Sender         email.Sender // nil sends nothing
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by NewMux)
var emailSender email.Sender

// location decides which calendar day a kiosk check-in belongs to.
var location = time.UTC

// timeNow is the clock handed to orchestrators; tests pin it.
var timeNow = time.Now

// NewMux wires HTTP handlers for the app.
// PRE: s has every store set; len(opts.CSRFKey) == 32
// POST: returns the fully wrapped handler; package globals point at s and opts
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	perfCollector = opts.Collector
	emailSender = opts.Sender
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.SecureCookies
	if opts.Location != nil {
		location = opts.Location
	}

	mux := http.NewServeMux()
	if opts.StaticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
	}
	registerRoutes(mux)

	// Outermost last: Timing -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	)
}
