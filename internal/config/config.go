package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// CareOps REST backend consumed by the gateway.
	BackendBaseURL string

	// Session cookie settings.
	SessionSecret string
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool
	LoginRedirect string

	// Wizard draft storage. RedisAddr empty means in-memory drafts.
	DraftTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSAllowedOrigins []string

	// Public endpoints rate limiting.
	PublicRateLimit  int
	PublicRateWindow time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:8000"),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionCookie: getEnv("SESSION_COOKIE", "frontdesk_session"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		SecureCookies: getEnvAsBool("SECURE_COOKIES", false),
		LoginRedirect: getEnv("LOGIN_REDIRECT", "/login"),

		DraftTTL:      getEnvAsDuration("DRAFT_TTL", 30*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		CORSAllowedOrigins: splitEnv("CORS_ALLOWED_ORIGINS"),

		PublicRateLimit:  getEnvAsInt("PUBLIC_RATE_LIMIT", 60),
		PublicRateWindow: getEnvAsDuration("PUBLIC_RATE_WINDOW", time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
