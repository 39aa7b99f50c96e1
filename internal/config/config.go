package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultJWTSecret is only acceptable in dev. Validate rejects it in prod.
	DefaultJWTSecret = "dev-only-secret-change-me"

	// DefaultAdminPassword keeps the legacy Admin login working in dev.
	DefaultAdminPassword = "PasswordAdmin"

	// bcrypt rejects longer input.
	maxAdminPasswordBytes = 72
)

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

	JWTSecret string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET and ADMIN_PASSWORD must be set and not the defaults.
	Env string

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// AdminPassword enables the Admin login path. Empty disables it.
	AdminPassword string
	// AdminSeed provisions the Admin account at startup instead of on first login.
	AdminSeed bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json"; LogLevel is debug|info|warn|error.
	LogFormat string
	LogLevel  string

	// CORSAllowedOrigins is set via CORS_ALLOWED_ORIGINS (comma-separated). Empty means same-origin only.
	CORSAllowedOrigins []string

	// StatsCron is the cron expression for refreshing the stored-row gauges.
	StatsCron string
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "pcbuilder"),
		DBUser: getEnv("DB_USER", "pcbuilder"),
		DBPass: getEnv("DB_PASS", "pcbuilder"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		Env:            getEnv("ENV", "dev"),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 24),

		// ADMIN_PASSWORD="" is not distinguishable from unset, so "off" disables the path.
		AdminPassword: adminPassword(getEnv("ADMIN_PASSWORD", DefaultAdminPassword)),
		AdminSeed:     getEnvBool("ADMIN_SEED", false),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),

		StatsCron: getEnv("STATS_CRON", "*/5 * * * *"),
	}
}

// Validate refuses an unusable admin password, and guessable secrets in prod.
func (c Config) Validate() error {
	var errs []error
	if len(c.AdminPassword) > maxAdminPasswordBytes {
		errs = append(errs, fmt.Errorf("ADMIN_PASSWORD must be at most %d bytes", maxAdminPasswordBytes))
	}
	if c.Env != "prod" {
		return errors.Join(errs...)
	}
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in prod"))
	}
	if c.AdminPassword == DefaultAdminPassword {
		errs = append(errs, errors.New("ADMIN_PASSWORD must be changed or set to \"off\" in prod"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// DatabaseURL returns the postgres URL used by migrations.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func adminPassword(v string) string {
	if strings.EqualFold(v, "off") {
		return ""
	}
	return v
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
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
