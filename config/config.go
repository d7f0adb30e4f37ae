package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig
	Admin      AdminConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// RateLimitConfig mirrors the tiered fixed-window limits applied to the
// admin dashboard and public traceability endpoints. Staff users bypass
// limiting entirely.
type RateLimitConfig struct {
	AnonLimit       int
	AnonWindow      time.Duration
	UserLimit       int
	UserWindow      time.Duration
	AnalyticsAnon   int
	AnalyticsWindow time.Duration
	ScanLimit       int
	ScanWindow      time.Duration
}

// AdminConfig holds the seeded administrator account credentials.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         envStr("PORT", "8080"),
			Env:          envStr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envStr("DATABASE_DSN", "agriconnect:agriconnect@tcp(localhost:3306)/agriconnect?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     envStr("REDIS_ADDR", "localhost:6379"),
			Password: envStr("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  envStr("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: envStr("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "agriconnect",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: envStr("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    envStr("CLOUDINARY_API_KEY", ""),
			APISecret: envStr("CLOUDINARY_API_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			AnonLimit:       envInt("RATE_LIMIT_ANON", 50),
			AnonWindow:      time.Minute,
			UserLimit:       envInt("RATE_LIMIT_USER", 500),
			UserWindow:      time.Hour,
			AnalyticsAnon:   envInt("RATE_LIMIT_ANALYTICS_ANON", 20),
			AnalyticsWindow: time.Minute,
			ScanLimit:       envInt("RATE_LIMIT_SCAN", 30),
			ScanWindow:      time.Minute,
		},
		Admin: AdminConfig{
			Email:    envStr("ADMIN_EMAIL", "admin@agriconnect.com"),
			Password: envStr("ADMIN_PASSWORD", ""),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
