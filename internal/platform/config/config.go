package config

import (
	"os"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	DatabaseURL    string
	AdminTokenHash string
	Environment    string

	// DefaultCodeTTL is applied by tooling when no expiry is given; the API
	// always requires an explicit valid_until.
	DefaultCodeTTL time.Duration

	// CleanupInterval and CleanupRetention drive the expired-credential purge
	// worker. Retention keeps recently expired codes visible to the admin
	// panel before they are removed.
	CleanupInterval  time.Duration
	CleanupRetention time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:             ":8080",
		Environment:      "dev",
		DefaultCodeTTL:   24 * time.Hour,
		CleanupInterval:  time.Hour,
		CleanupRetention: 30 * 24 * time.Hour,
	}

	if addr := os.Getenv("BRIGADE_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if env := os.Getenv("BRIGADE_ENV"); env != "" {
		cfg.Environment = env
	}
	cfg.DatabaseURL = os.Getenv("BRIGADE_DATABASE_URL")
	cfg.AdminTokenHash = os.Getenv("BRIGADE_ADMIN_TOKEN_HASH")

	if d, ok := durationEnv("BRIGADE_CODE_TTL"); ok {
		cfg.DefaultCodeTTL = d
	}
	if d, ok := durationEnv("BRIGADE_CLEANUP_INTERVAL"); ok {
		cfg.CleanupInterval = d
	}
	if d, ok := durationEnv("BRIGADE_CLEANUP_RETENTION"); ok {
		cfg.CleanupRetention = d
	}

	return cfg
}

func durationEnv(key string) (time.Duration, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return d, true
}
