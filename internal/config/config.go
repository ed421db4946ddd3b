package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries all environment-driven settings. Secrets for signing and the
// outbound email provider come from the environment only.
type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	JWTRefreshSecret string

	FrontendURL string

	SendGridAPIKey string
	EmailFrom      string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MediaBucket    string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment variables with development
// defaults. DATABASE_URL and JWT_SECRET are mandatory in production.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "5000"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		FrontendURL:      getEnv("FRONTEND_URL", "http://localhost:5173"),
		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:        getEnv("EMAIL_FROM", "noreply.rentzy@gmail.com"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:      os.Getenv("MINIO_USE_SSL") == "true",
		MediaBucket:      getEnv("MEDIA_BUCKET", "rentzy-property-media"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if cfg.IsProduction() {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required")
		}
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required")
		}
	}

	// The refresh secret falls back to the access secret when unset.
	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
