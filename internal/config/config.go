package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const devJWTSecret = "dev-secret-change-in-production"

const (
	BackendMySQL = "mysql"
	BackendRedis = "redis"

	SourceCrypto = "crypto"
	SourcePCG    = "pcg"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	RedisURL    string
	JWTSecret   string
	JWTExpiry   time.Duration

	PreferenceBackend  string
	PreferenceCacheTTL time.Duration

	Generator GeneratorConfig

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// GeneratorConfig bounds the lengths accepted from clients.
type GeneratorConfig struct {
	MinLength     int
	MaxLength     int
	DefaultLength int
	RandomSource  string
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true"),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),

		PreferenceBackend:  getEnv("PREFERENCE_BACKEND", BackendMySQL),
		PreferenceCacheTTL: getDuration("PREFERENCE_CACHE_TTL", time.Minute),

		Generator: GeneratorConfig{
			MinLength:     getInt("GENERATOR_MIN_LENGTH", 4),
			MaxLength:     getInt("GENERATOR_MAX_LENGTH", 32),
			DefaultLength: getInt("GENERATOR_DEFAULT_LENGTH", 16),
			RandomSource:  getEnv("RANDOM_SOURCE", SourceCrypto),
		},

		AuthRateLimitRPS:   getFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getInt("AUTH_RATE_LIMIT_BURST", 10),
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	return cfg
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if c.Env == "production" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production environment")
	}
	if c.PreferenceBackend != BackendMySQL && c.PreferenceBackend != BackendRedis {
		return fmt.Errorf("unknown PREFERENCE_BACKEND %q", c.PreferenceBackend)
	}
	if c.PreferenceBackend == BackendRedis && c.RedisURL == "" {
		return errors.New("REDIS_URL is required when PREFERENCE_BACKEND=redis")
	}
	if c.PreferenceCacheTTL <= 0 {
		return errors.New("PREFERENCE_CACHE_TTL must be positive")
	}
	return c.Generator.Validate()
}

func (g GeneratorConfig) Validate() error {
	if g.MinLength < 1 {
		return errors.New("GENERATOR_MIN_LENGTH must be at least 1")
	}
	if g.MaxLength < g.MinLength {
		return errors.New("GENERATOR_MAX_LENGTH must not be below GENERATOR_MIN_LENGTH")
	}
	if g.DefaultLength < g.MinLength || g.DefaultLength > g.MaxLength {
		return errors.New("GENERATOR_DEFAULT_LENGTH must lie within the min/max range")
	}
	if g.RandomSource != SourceCrypto && g.RandomSource != SourcePCG {
		return fmt.Errorf("unknown RANDOM_SOURCE %q", g.RandomSource)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring invalid number setting", "key", key, "value", v)
		return fallback
	}
	return f
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration setting", "key", key, "value", v)
		return fallback
	}
	return d
}
