package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type CacheConfig struct {
	Backend   string // "memory", "redis", "none"
	TTL       time.Duration
	RedisAddr string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type LimitsConfig struct {
	MaxInstallments int
	MaxPrincipal    decimal.Decimal
}

type Config struct {
	HTTPAddr       string
	LogLevel       string
	LogFormat      string
	Cache          CacheConfig
	RateLimit      RateLimitConfig
	Limits         LimitsConfig
	Holidays       []string
	MetricsEnabled bool
	ServiceName    string
}

// Load reads an optional .env file, then the environment, falling back to defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	return Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Cache: CacheConfig{
			Backend:   strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
			TTL:       getEnvDuration("CACHE_TTL", 10*time.Minute),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
			Burst: getEnvInt("RATE_LIMIT_BURST", 10),
		},
		Limits: LimitsConfig{
			MaxInstallments: getEnvInt("MAX_INSTALLMENTS", 5000),
			MaxPrincipal:    getEnvDecimal("MAX_PRINCIPAL", decimal.NewFromInt(100_000_000)),
		},
		Holidays:       getEnvList("HOLIDAYS"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		ServiceName:    "amortizationd",
	}
}

func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("CACHE_BACKEND %q: want memory, redis or none", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required for the redis cache backend")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate limit %.2f rps / burst %d must be positive", c.RateLimit.RPS, c.RateLimit.Burst)
	}
	if c.Limits.MaxInstallments < 1 {
		return fmt.Errorf("MAX_INSTALLMENTS %d must be at least 1", c.Limits.MaxInstallments)
	}
	if !c.Limits.MaxPrincipal.IsPositive() {
		return fmt.Errorf("MAX_PRINCIPAL %s must be positive", c.Limits.MaxPrincipal)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
