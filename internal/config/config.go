package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string

	HTTPAddr string

	DBType     string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	// Google Sheets API endpoint. Overridable for tests and proxies.
	SheetsBaseURL string

	// Fetch retry tuning for the sync orchestrator.
	FetchMaxAttempts int
	FetchBaseBackoff time.Duration

	// Worker-mode settings: a service-account access token and the
	// interval between sync-all passes.
	SyncAccessToken string
	SyncInterval    time.Duration

	BootstrapDemo bool
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "sheetsync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),

		DBType:     getenv("DATABASE_TYPE", "postgres"),
		DBHost:     getenv("DATABASE_HOST", "localhost"),
		DBPort:     getenv("DATABASE_PORT", "5432"),
		DBName:     getenv("DATABASE_NAME", "sheetsync"),
		DBUser:     getenv("DATABASE_USER", "postgres"),
		DBPassword: getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:  getenv("DATABASE_SSLMODE", "disable"),

		SheetsBaseURL: getenv("SHEETS_BASE_URL", "https://sheets.googleapis.com/v4"),

		FetchMaxAttempts: getenvInt("SYNC_FETCH_MAX_ATTEMPTS", 3),
		FetchBaseBackoff: getenvDuration("SYNC_FETCH_BASE_BACKOFF", 2*time.Second),

		SyncAccessToken: strings.TrimSpace(getenv("SYNC_ACCESS_TOKEN", "")),
		SyncInterval:    getenvDuration("SYNC_INTERVAL", time.Hour),

		BootstrapDemo: getenvBool("BOOTSTRAP_DEMO", false),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
