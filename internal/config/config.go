package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Production is the value of YOPLE_ENV that enables production checks.
const Production = "production"

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StoreSupabase = "supabase"
)

// SupabaseOptions configures the hosted PostgREST backend.
type SupabaseOptions struct {
	URL        string        `env:"SUPABASE_URL"`
	ServiceKey string        `env:"SUPABASE_SERVICE_KEY"`
	Timeout    time.Duration `env:"SUPABASE_TIMEOUT" envDefault:"25s"`
}

// MailOptions configures outgoing notification email.
type MailOptions struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	From         string `env:"YOPLE_MAIL_FROM" envDefault:"Yople 출석부 <noreply@yople.kr>"`
}

// Config holds every setting the server reads from the environment.
type Config struct {
	Env           string `env:"YOPLE_ENV" envDefault:"development"`
	Addr          string `env:"YOPLE_ADDR" envDefault:":8080"`
	DBPath        string `env:"YOPLE_DB_PATH" envDefault:"yople.db"`
	StaticDir     string `env:"YOPLE_STATIC_DIR"`
	Store         string `env:"YOPLE_STORE" envDefault:"sqlite"`
	CSRFKey       string `env:"YOPLE_CSRF_KEY"`
	OwnerEmail    string `env:"YOPLE_OWNER_EMAIL" envDefault:"owner@yople.kr"`
	OwnerPassword string `env:"YOPLE_OWNER_PASSWORD"`
	Timezone      string `env:"YOPLE_TIMEZONE" envDefault:"Asia/Seoul"`
	SlowQueryMs   int    `env:"YOPLE_SLOW_QUERY_MS" envDefault:"50"`
	SlowRequestMs int    `env:"YOPLE_SLOW_REQUEST_MS" envDefault:"200"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`

	Supabase SupabaseOptions
	Mail     MailOptions
}

// Load reads .env files that exist and parses the environment into a Config.
// PRE: none
// POST: Returns a validated Config or an error naming the bad setting
func Load(envFiles ...string) (*Config, error) {
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
	case StoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			return errors.New("YOPLE_STORE=supabase requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
	default:
		return fmt.Errorf("YOPLE_STORE must be 'sqlite' or 'supabase', got %q", c.Store)
	}
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return errors.New("YOPLE_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
	} else if c.IsProduction() {
		return errors.New("YOPLE_CSRF_KEY is required in production")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("YOPLE_TIMEZONE: %w", err)
	}
	return nil
}

// IsProduction reports whether production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// Location returns the configured time zone; "today" for check-in is computed in it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CSRFKeyBytes decodes the configured CSRF key. Returns nil when unset.
func (c *Config) CSRFKeyBytes() []byte {
	if c.CSRFKey == "" {
		return nil
	}
	key, _ := hex.DecodeString(c.CSRFKey)
	return key
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
