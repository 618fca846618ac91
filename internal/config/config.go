package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	JWTSecret            string
	JWTExpirationMinutes int

	FrontendURL   string
	ActivationURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	// SummaryTZ is the fixed reference zone for the daily summary job.
	SummaryTZ        string
	SchedulerEnabled bool
	ReminderCron     string
	SummaryCron      string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "file:moneymanager.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "changeit_changeit_changeit_changeit")
	cfg.JWTExpirationMinutes = parseInt("JWT_EXPIRATION_MINUTES", 60)
	cfg.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:5173")
	cfg.ActivationURL = getEnv("ACTIVATION_URL", "http://localhost:8080/activate")
	cfg.SMTPHost = getEnv("SMTP_HOST", "localhost")
	cfg.SMTPPort = parseInt("SMTP_PORT", 587)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@moneymanager.local")
	cfg.SummaryTZ = getEnv("SUMMARY_TZ", "Asia/Jakarta")
	cfg.SchedulerEnabled = ParseBool("SCHEDULER_ENABLED", false)
	cfg.ReminderCron = getEnv("REMINDER_CRON", "0 22 * * *")
	cfg.SummaryCron = getEnv("SUMMARY_CRON", "0 23 * * *")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}
