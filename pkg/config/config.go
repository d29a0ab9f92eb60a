package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	// Store selects the booking/property/catalog backend: "postgres" (default) or "memory".
	Store string

	JWT JWTConfig

	Redis RedisConfig

	Log LogConfig

	// StrictInsuranceBands makes overlapping plan bands a catalog load error instead of a warning.
	StrictInsuranceBands bool

	// MaxGuests caps the guest count accepted at booking creation.
	MaxGuests int

	AllowedOrigins []string

	RateLimitRPS   float64
	RateLimitBurst int
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	// Pool sizing; zero keeps the pgxpool default.
	MaxConns        int
	MinConns        int
	MaxConnIdleTime time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type RedisConfig struct {
	// Addr empty disables the catalog cache.
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type LogConfig struct {
	Level string
	// File empty logs to stderr; otherwise output is rotated by size.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":7075"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "rental"),
			User:     env("DB_USER", "rental"),
			Password: env("DB_PASSWORD", "rental"),
			SSLMode:  env("DB_SSLMODE", "disable"),

			MaxConns:        envInt("DB_MAX_CONNS", 0),
			MinConns:        envInt("DB_MIN_CONNS", 0),
			MaxConnIdleTime: envDuration("DB_MAX_CONN_IDLE", 0),
		},
		Store: strings.ToLower(env("STORE", "postgres")),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: env("JWT_ISSUER", "rental"),
			TTL:    envDuration("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
			TTL:      envDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		},
		Log: LogConfig{
			Level:      env("LOG_LEVEL", "info"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 10),
			MaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		},
		StrictInsuranceBands: envBool("INSURANCE_STRICT_BANDS", false),
		MaxGuests:            envInt("MAX_GUESTS", 16),
		AllowedOrigins:       envList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:9002"),
		RateLimitRPS:         envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       envInt("RATE_LIMIT_BURST", 10),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return d
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
