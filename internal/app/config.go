package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SessionSecret string        // Required: HS256 signing secret for session tokens
	SessionIssuer string        // Optional: issuer claim (default: budgetthis)
	SessionTTL    time.Duration // Optional: session lifetime (default: 7 days)

	DatabaseFile string // Optional: path to SQLite database file (default: ./budgetthis.db)
	AppBaseURL   string // Optional: frontend base URL for reset links (default: http://localhost:8080)

	SMTPHost     string // Optional: SMTP relay host; empty means log-only mail
	SMTPPort     int    // Optional: SMTP port (default: 587)
	SMTPUser     string
	SMTPPass     string
	MailFrom     string // Optional: sender address (default: no-reply@budget-this.com)
	MailFromName string // Optional: sender display name (default: Budget This)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-code cleanup interval (default: 1h)
}

// ErrMissingSessionSecret aborts startup rather than signing sessions with an
// empty key.
var ErrMissingSessionSecret = errors.New("SESSION_SECRET is required")

// LoadConfig reads configuration from the environment, after loading an
// optional .env file for local development.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionIssuer: getEnvOrDefault("SESSION_ISSUER", "budgetthis"),
		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", 7*24*time.Hour),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "budgetthis.db"),
		AppBaseURL:   getEnvOrDefault("APP_BASE_URL", "http://localhost:8080"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		MailFrom:     getEnvOrDefault("MAIL_FROM", "no-reply@budget-this.com"),
		MailFromName: getEnvOrDefault("MAIL_FROM_NAME", "Budget This"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if cfg.SessionSecret == "" {
		return Config{}, ErrMissingSessionSecret
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
