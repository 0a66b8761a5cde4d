package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// CarrierConfig describes one external carrier rate endpoint. Carriers are
// optional; with none configured the resolver falls back to flat rates.
type CarrierConfig struct {
	Name    string
	BaseURL string
	APIKey  string
}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string

	OriginStreet  string
	OriginCity    string
	OriginState   string
	OriginPostal  string
	OriginCountry string

	Carriers         []CarrierConfig
	CarrierTimeout   time.Duration
	CarrierAttempts  int
	PromoCacheTTL    time.Duration
	IdempotencyTTL   time.Duration
	QuoteRateWindow  time.Duration
	QuoteRateMax     int
	AdminDefaultPage int
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		JWTIssuer:          valueOrDefault(k.String("JWT_ISSUER"), "storefront"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		OriginStreet:       valueOrDefault(k.String("SHIP_ORIGIN_STREET"), "2000 Commerce Way"),
		OriginCity:         valueOrDefault(k.String("SHIP_ORIGIN_CITY"), "Los Angeles"),
		OriginState:        valueOrDefault(k.String("SHIP_ORIGIN_STATE"), "CA"),
		OriginPostal:       valueOrDefault(k.String("SHIP_ORIGIN_POSTAL"), "90001"),
		OriginCountry:      valueOrDefault(k.String("SHIP_ORIGIN_COUNTRY"), "US"),
		Carriers:           parseCarriers(k.String("SHIP_CARRIERS")),
		CarrierTimeout:     parseDuration(k.String("SHIP_CARRIER_TIMEOUT"), "3s"),
		CarrierAttempts:    parseInt(k.String("SHIP_CARRIER_ATTEMPTS"), 2),
		PromoCacheTTL:      parseDuration(k.String("PROMO_CACHE_TTL"), "60s"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		QuoteRateWindow:    parseDuration(k.String("QUOTE_RATE_WINDOW"), "1m"),
		QuoteRateMax:       parseInt(k.String("QUOTE_RATE_MAX"), 120),
		AdminDefaultPage:   parseInt(k.String("ADMIN_DEFAULT_PAGE_SIZE"), 50),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// parseCarriers reads a semicolon-separated carrier list of the form
// "name|baseURL|apiKey;name|baseURL|apiKey". Entries missing a base URL are
// skipped; the API key may be empty for carriers that do not require one.
func parseCarriers(value string) []CarrierConfig {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	entries := strings.Split(value, ";")
	out := make([]CarrierConfig, 0, len(entries))
	for _, entry := range entries {
		fields := strings.Split(strings.TrimSpace(entry), "|")
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimSpace(fields[0])
		baseURL := strings.TrimSpace(fields[1])
		if name == "" || baseURL == "" {
			continue
		}
		carrier := CarrierConfig{Name: name, BaseURL: baseURL}
		if len(fields) > 2 {
			carrier.APIKey = strings.TrimSpace(fields[2])
		}
		out = append(out, carrier)
	}
	return out
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
