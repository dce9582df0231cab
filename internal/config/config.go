package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds process configuration read from the environment at startup.
type Config struct {
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// DefaultCommissionPercentage is used when no commission_percentage
	// setting row exists yet.
	DefaultCommissionPercentage int

	ListenAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		JWTSecret:                   os.Getenv("JWT_SECRET"),
		RedisAddr:                   envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		MinioEndpoint:               envOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:              envOrDefault("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:              envOrDefault("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:                 envOrDefault("MINIO_BUCKET", "sewlovely-proofs"),
		MinioUseSSL:                 os.Getenv("MINIO_USE_SSL") == "true",
		DefaultCommissionPercentage: 5,
		ListenAddr:                  envOrDefault("LISTEN_ADDR", ":8080"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if pctStr := os.Getenv("COMMISSION_PERCENTAGE"); pctStr != "" {
		pct, err := strconv.Atoi(pctStr)
		if err != nil || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("COMMISSION_PERCENTAGE must be an integer between 0 and 100")
		}
		cfg.DefaultCommissionPercentage = pct
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
