package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// SessionDuration of zero means sessions never expire and are only
	// removed by explicit logout.
	SessionDuration time.Duration

	AppBaseURL string
	CSRFSecret string

	// Rate limiting for credential endpoints
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Amazon SES (email disabled when SESFromEmail is empty)
	SESRegion    string
	SESFromEmail string
	SESFromName  string

	// Geo-IP lookup
	GeoIPEndpoint string
	GeoIPTimeout  time.Duration

	// OAuth providers (a provider is disabled when its client ID is empty)
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	AppleClientID        string
	AppleClientSecret    string

	UploadMaxSize int64
	UploadPath    string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./tiakaly.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionDuration: getEnvDuration("SESSION_DURATION", 0),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		CSRFSecret: getEnv("CSRF_SECRET", "tiakaly-dev-csrf-secret"),

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),

		SESRegion:    getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Tiakaly"),

		GeoIPEndpoint: getEnv("GEOIP_ENDPOINT", "http://ip-api.com/json"),
		GeoIPTimeout:  getEnvDuration("GEOIP_TIMEOUT", 3*time.Second),

		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FacebookClientID:     getEnv("FACEBOOK_CLIENT_ID", ""),
		FacebookClientSecret: getEnv("FACEBOOK_CLIENT_SECRET", ""),
		AppleClientID:        getEnv("APPLE_CLIENT_ID", ""),
		AppleClientSecret:    getEnv("APPLE_CLIENT_SECRET", ""),

		UploadMaxSize: getEnvInt64("UPLOAD_MAX_SIZE", 5*1024*1024),
		UploadPath:    getEnv("UPLOAD_PATH", "./uploads"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
