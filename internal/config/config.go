package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultRoles is used when VALID_USER_ROLES is not set.
const DefaultRoles = "Admin,Leadership,General Responder,Community Member"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// ValidRoles is the runtime-configured set of user roles, from VALID_USER_ROLES (comma-separated).
	ValidRoles []string

	// EncryptionKey is the process-wide secret for credential encryption. Required in prod.
	EncryptionKey string

	JWTSecret string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET and ENCRYPTION_KEY must be set and not the defaults.
	Env string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS (comma-separated in CORS_ALLOWED_ORIGINS).
	// When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string

	// SMTP settings for alert notifications. When SMTPHost is empty, email is disabled.
	SMTPHost    string
	SMTPPort    string
	SMTPFrom    string
	SMTPUseTLS  bool
	AlertsEmail string

	// AlertsCronSpec controls the expired/low-stock sweep schedule (default hourly).
	AlertsCronSpec string
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "emsdb"),
		DBUser: getEnv("DB_USER", "emsuser"),
		DBPass: getEnv("DB_PASS", "emspass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		ValidRoles: splitList(getEnv("VALID_USER_ROLES", DefaultRoles)),

		EncryptionKey: getEnv("ENCRYPTION_KEY", "dev-encryption-key"),
		JWTSecret:     getEnv("JWT_SECRET", "supersecretkey"),
		Env:           getEnv("ENV", "dev"),

		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		SMTPHost:    getEnv("SMTP_SERVER", ""),
		SMTPPort:    getEnv("SMTP_PORT", "25"),
		SMTPFrom:    getEnv("SMTP_FROM", ""),
		SMTPUseTLS:  getEnv("USE_TLS", "") != "",
		AlertsEmail: getEnv("ALERTS_EMAIL", ""),

		AlertsCronSpec: getEnv("ALERTS_CRON", "@hourly"),
	}
}

// splitList splits a comma-separated list and trims spaces. Empty strings are omitted.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
