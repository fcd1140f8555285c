package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string
	Lookup   LookupConfig
	Session  SessionConfig
	Web      WebConfig
	Limits   LimitsConfig
}

// LookupConfig controls the address lookup endpoint and the page's lookup source.
type LookupConfig struct {
	// URL of a remote getAddresses endpoint. When empty the page calls the
	// in-process lookup service directly.
	URL string

	// Delay is the artificial latency added before a successful lookup response.
	Delay time.Duration

	// Timeout bounds a remote lookup call.
	Timeout time.Duration
}

// SessionConfig controls the cookie-backed address book sessions.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type WebConfig struct {
	TemplatesDir string
	StaticDir    string
}

type LimitsConfig struct {
	RequestsPerSecond float64
	Burst             int
	RequestTimeout    time.Duration

	// TrustProxy makes the client address come from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a reverse proxy that overwrites them.
	TrustProxy bool
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		Lookup: LookupConfig{
			URL:     getEnv("LOOKUP_URL", ""),
			Delay:   getEnvDuration("LOOKUP_DELAY", 500*time.Millisecond),
			Timeout: getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "addressbook_session"),
			TTL:        getEnvDuration("SESSION_TTL", 24*time.Hour),
		},
		Web: WebConfig{
			TemplatesDir: getEnv("TEMPLATES_DIR", "web/templates"),
			StaticDir:    getEnv("STATIC_DIR", "./web/static"),
		},
		Limits: LimitsConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 10),
			Burst:             int(getEnvInt("RATE_LIMIT_BURST", 20)),
			RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			TrustProxy:        getEnv("TRUST_PROXY", "false") == "true",
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}
	cfg.Session.Secure = cfg.Env == "prod"

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Lookup.Delay < 0 {
		return nil, fmt.Errorf("LOOKUP_DELAY must not be negative, got %s", cfg.Lookup.Delay)
	}

	if cfg.Lookup.Timeout <= 0 {
		return nil, fmt.Errorf("LOOKUP_TIMEOUT must be positive, got %s", cfg.Lookup.Timeout)
	}

	// The lookup call must finish inside the request budget, delay included.
	if cfg.Lookup.Delay >= cfg.Limits.RequestTimeout {
		return nil, fmt.Errorf("LOOKUP_DELAY (%s) must be shorter than REQUEST_TIMEOUT (%s)", cfg.Lookup.Delay, cfg.Limits.RequestTimeout)
	}

	if cfg.Limits.RequestsPerSecond <= 0 || cfg.Limits.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go duration strings ("500ms", "2s").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Default().Warn("Invalid duration. Using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
