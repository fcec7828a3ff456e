package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const (
	devAuthSecret    = "dev-auth-secret-change-in-production"
	devRefreshSecret = "dev-refresh-secret-change-in-production"
	devCookieSecret  = "dev-cookie-secret-change-in-production"
)

var (
	ErrMissingSecret      = errors.New("JWT_AUTH_SECRET, JWT_REFRESH_SECRET and COOKIE_SECRET must be set in production")
	ErrSecretsNotDistinct = errors.New("JWT_AUTH_SECRET, JWT_REFRESH_SECRET and COOKIE_SECRET must all differ")
	ErrInvalidTTL         = errors.New("token lifetimes must be positive")
	ErrRefreshTTLTooShort = errors.New("JWT_REFRESH_EXPIRES_MS must be longer than JWT_AUTH_EXPIRES_MS")
	ErrInvalidRateLimit   = errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseDSN string

	AuthSecret     string
	AuthCookieName string
	AuthTTL        time.Duration

	RefreshSecret     string
	RefreshCookieName string
	RefreshTTL        time.Duration

	CookieSecret string
	CookieDomain string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	return Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/shopdesk?parseTime=true&multiStatements=false"),

		AuthSecret:     getEnv("JWT_AUTH_SECRET", devAuthSecret),
		AuthCookieName: getEnv("JWT_AUTH_COOKIE_NAME", "Authentication"),
		AuthTTL:        getEnvMillis("JWT_AUTH_EXPIRES_MS", 15*time.Minute),

		RefreshSecret:     getEnv("JWT_REFRESH_SECRET", devRefreshSecret),
		RefreshCookieName: getEnv("JWT_REFRESH_COOKIE_NAME", "Refresh"),
		RefreshTTL:        getEnvMillis("JWT_REFRESH_EXPIRES_MS", 7*24*time.Hour),

		CookieSecret: getEnv("COOKIE_SECRET", devCookieSecret),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the secrets and lifetimes for consistency.
func (c Config) Validate() error {
	if c.IsProduction() {
		for _, s := range []string{c.AuthSecret, c.RefreshSecret, c.CookieSecret} {
			if s == "" || s == devAuthSecret || s == devRefreshSecret || s == devCookieSecret {
				return ErrMissingSecret
			}
		}
	}

	if c.AuthSecret == c.RefreshSecret || c.AuthSecret == c.CookieSecret || c.RefreshSecret == c.CookieSecret {
		return ErrSecretsNotDistinct
	}

	if c.AuthTTL <= 0 || c.RefreshTTL <= 0 {
		return ErrInvalidTTL
	}
	if c.RefreshTTL <= c.AuthTTL {
		return ErrRefreshTTLTooShort
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvMillis reads a duration expressed in milliseconds.
func getEnvMillis(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
