package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yople/internal/adapters/email"
	web "yople/internal/adapters/http"
	"yople/internal/adapters/http/perf"
	"yople/internal/adapters/storage"
	accountStore "yople/internal/adapters/storage/account"
	attendanceStore "yople/internal/adapters/storage/attendance"
	memberStore "yople/internal/adapters/storage/member"
	visitorStore "yople/internal/adapters/storage/visitor"
	"yople/internal/adapters/supabase"
	"yople/internal/application/orchestrators"
	"yople/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server_event", "event", "exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := perf.NewCollector(perf.DefaultRingSize)

	stores, closeStores, err := openStores(ctx, cfg, collector)
	if err != nil {
		return err
	}
	defer closeStores()

	seedDeps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore}
	seed := orchestrators.SeedOwnerInput{Email: cfg.OwnerEmail, Password: cfg.OwnerPassword}
	if err := orchestrators.ExecuteSeedOwner(ctx, seed, seedDeps); err != nil {
		return err
	}

	csrfKey := cfg.CSRFKeyBytes()
	if csrfKey == nil {
		// Development only; Validate rejects a missing key in production.
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			return err
		}
		slog.Warn("server_event", "event", "csrf_key_generated", "reason", "YOPLE_CSRF_KEY unset")
	}

	handler := web.NewMux(stores, web.Options{
		StaticDir:     cfg.StaticDir,
		CSRFKey:       csrfKey,
		SecureCookies: cfg.IsProduction(),
		Location:      cfg.Location(),
		SlowRequestMs: cfg.SlowRequestMs,
		Collector:     collector,
		Sender:        email.NewSender(cfg.Mail.ResendAPIKey, cfg.Mail.From),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "store", cfg.Store, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStores builds the configured backend. The returned func releases it.
func openStores(ctx context.Context, cfg *config.Config, collector *perf.Collector) (*web.Stores, func(), error) {
	if cfg.Store == config.StoreSupabase {
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Timeout)
		if err := client.Ping(ctx); err != nil {
			return nil, nil, err
		}
		stores := &web.Stores{
			MemberStore:     supabase.NewMemberStore(client),
			AttendanceStore: supabase.NewAttendanceStore(client),
			VisitorStore:    supabase.NewVisitorStore(client),
			AccountStore:    supabase.NewAccountStore(client),
		}
		return stores, func() {}, nil
	}

	db, err := storage.OpenAndMigrate(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)
	stores := &web.Stores{
		MemberStore:     memberStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		VisitorStore:    visitorStore.NewSQLiteStore(timedDB),
		AccountStore:    accountStore.NewSQLiteStore(timedDB),
	}
	return stores, func() { _ = db.Close() }, nil
}
