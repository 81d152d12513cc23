package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFormat   string
	Locale      string

	DatabaseURL         string
	SecurityDatabaseURL string
	DBMaxOpenConns      int
	DBMaxIdleConns      int

	RedisURL string

	JWTSecret       string
	ServiceName     string
	ServiceTokenTTL time.Duration

	TelegramBotToken      string
	TelegramAPIEndpoint   string
	TelegramWebhookSecret string

	PublicViewURL    string
	ViewTokenTTL     time.Duration
	ViewCacheTTL     time.Duration
	WarehouseBaseURL string
	CatalogBaseURL   string
	UpstreamTimeout  time.Duration
	ImageTimeout     time.Duration

	DirectoryCacheTTL time.Duration
	WebhookDedupeTTL  time.Duration

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	CORSOrigins string

	ResendAPIKey string
	FromEmail    string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		Locale:      getEnv("LOCALE", "es"),

		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SecurityDatabaseURL: getEnv("SECURITY_DATABASE_URL", getEnv("DATABASE_URL", "")),
		DBMaxOpenConns:      getIntEnv("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:      getIntEnv("DB_MAX_IDLE_CONNS", 5),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		ServiceName:     getEnv("SERVICE_NAME", "NotificationsTelegram"),
		ServiceTokenTTL: getDurationEnv("SERVICE_TOKEN_TTL", 30*time.Minute),

		TelegramBotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIEndpoint:   getEnv("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
		TelegramWebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),

		PublicViewURL:    getEnv("PUBLIC_VIEW_URL", ""),
		ViewTokenTTL:     getDurationEnv("VIEW_TOKEN_TTL", 72*time.Hour),
		ViewCacheTTL:     getDurationEnv("VIEW_CACHE_TTL", 2*time.Minute),
		WarehouseBaseURL: getEnv("WAREHOUSE_BASE_URL", "http://localhost:5002"),
		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "http://localhost:5001"),
		UpstreamTimeout:  getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		ImageTimeout:     getDurationEnv("IMAGE_TIMEOUT", 5*time.Second),

		DirectoryCacheTTL: getDurationEnv("DIRECTORY_CACHE_TTL", 5*time.Minute),
		WebhookDedupeTTL:  getDurationEnv("WEBHOOK_DEDUPE_TTL", 24*time.Hour),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:    getEnv("MINIO_BUCKET", "branding-assets"),
		MinIOUseSSL:    getBoolEnv("MINIO_USE_SSL", false),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@example.com"),
	}
}

// Validate reports settings the process cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TelegramBotToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
