package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	Environment string
	AppId       string

	// Fundraising platform API
	PlatformBaseURL       string
	PlatformToken         string
	PlatformWebhookSecret string

	// Payment processor webhook signing
	PaymentWebhookSecret    string
	PaymentWebhookTolerance time.Duration

	// CRM API (OAuth2 client credentials)
	CRMBaseURL      string
	CRMTokenURL     string
	CRMClientID     string
	CRMClientSecret string

	// Outbound HTTP discipline
	HTTPTimeout time.Duration
	MaxRetries  int
	RateBudget  int           // requests allowed per RateWindow
	RateWindow  time.Duration // window for the shared limiter

	// Optional Postgres reporting mirror; empty disables it
	MirrorPostgresDSN string

	// Cron expression for the scheduled full sync; empty disables it
	SyncSchedule string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-donorsync"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-donorsync"),

		PlatformBaseURL:       getEnv("PLATFORM_BASE_URL", "https://api.platform.example/v1"),
		PlatformToken:         getEnv("PLATFORM_API_TOKEN", ""),
		PlatformWebhookSecret: getEnv("PLATFORM_WEBHOOK_SECRET", ""),

		PaymentWebhookSecret:    getEnv("PAYMENT_WEBHOOK_SECRET", ""),
		PaymentWebhookTolerance: getEnvDuration("PAYMENT_WEBHOOK_TOLERANCE", 5*time.Minute),

		CRMBaseURL:      getEnv("CRM_BASE_URL", ""),
		CRMTokenURL:     getEnv("CRM_TOKEN_URL", ""),
		CRMClientID:     getEnv("CRM_CLIENT_ID", ""),
		CRMClientSecret: getEnv("CRM_CLIENT_SECRET", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:  getEnvInt("MAX_RETRIES", 3),
		RateBudget:  getEnvInt("RATE_BUDGET", 100),
		RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),

		MirrorPostgresDSN: getEnv("MIRROR_POSTGRES_DSN", ""),

		SyncSchedule: getEnv("SYNC_SCHEDULE", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid integer for %s, using default %d\n", key, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using default %s\n", key, fallback)
	}
	return fallback
}
