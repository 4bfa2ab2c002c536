// Package config internal/infrastructure/config/config.go
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lrscard/currency-service/internal/infrastructure/logger"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

// FrankfurterConfig holds the upstream Frankfurter API settings.
type FrankfurterConfig struct {
	BaseURL string        `envconfig:"BASE_URL" default:"https://api.frankfurter.app"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// ResiliencyConfig holds the retry and circuit breaker knobs applied to
// every upstream provider call.
type ResiliencyConfig struct {
	RetryCount              int           `envconfig:"RETRY_COUNT" default:"3"`
	BackoffBaseSeconds      int           `envconfig:"BACKOFF_BASE_SECONDS" default:"2"`
	BreakerFailureThreshold uint32        `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"2"`
	BreakerOpenDuration     time.Duration `envconfig:"BREAKER_OPEN_DURATION" default:"30s"`
}

// RedisConfig holds the Redis connection settings for the redis cache
// backend.
type RedisConfig struct {
	Addr     string `envconfig:"ADDR" default:"localhost:6379"`
	Password string `envconfig:"PASSWORD" default:""`
	DB       int    `envconfig:"DB" default:"0"`
}

// CacheConfig selects and tunes the rate cache backend.
type CacheConfig struct {
	// Backend is one of memory, redis, badger.
	Backend        string        `envconfig:"BACKEND" default:"memory"`
	TTL            time.Duration `envconfig:"TTL" default:"24h"`
	ExpirationDays int           `envconfig:"EXPIRATION_DAYS" default:"90"`
	BadgerPath     string        `envconfig:"BADGER_PATH" default:"./data"`
	Redis          RedisConfig   `envconfig:"REDIS"`
}

// CurrencyRulesConfig holds the allow/block lists loaded once at startup.
type CurrencyRulesConfig struct {
	ValidCurrencyCodes   []string `envconfig:"VALID_CURRENCY_CODES" default:"USD,EUR,GBP,JPY,AUD,CAD,CHF,CNY,SEK,NZD,BRL,MXN,TRY,PLN,THB"`
	BlockedCurrencyCodes []string `envconfig:"BLOCKED_CURRENCY_CODES" default:"TRY,PLN,THB,MXN"`
}

// RateLimitPolicyConfig is one named rate limit policy.
type RateLimitPolicyConfig struct {
	PermitLimit int           `envconfig:"PERMIT_LIMIT" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// RateLimitConfig holds the per-client request rate policies. The default
// policy covers the authenticated exchange-rate endpoints; the anonymous
// policy covers token issuance.
type RateLimitConfig struct {
	Enabled   bool                  `envconfig:"ENABLED" default:"true"`
	Default   RateLimitPolicyConfig `envconfig:"DEFAULT"`
	Anonymous RateLimitPolicyConfig `envconfig:"ANONYMOUS"`
}

// JwtConfig holds the settings for token issuance and verification.
type JwtConfig struct {
	Secret string        `envconfig:"SECRET" default:"local-development-secret"`
	Issuer string        `envconfig:"ISSUER" default:"currency-service"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"1h"`
}

// AppConfig is the full service configuration.
type AppConfig struct {
	Server        ServerConfig        `envconfig:"SERVER"`
	Frankfurter   FrankfurterConfig   `envconfig:"FRANKFURTER"`
	Resiliency    ResiliencyConfig    `envconfig:"RESILIENCY"`
	Cache         CacheConfig         `envconfig:"CACHE"`
	CurrencyRules CurrencyRulesConfig `envconfig:"CURRENCY_RULES"`
	RateLimit     RateLimitConfig     `envconfig:"RATE_LIMIT"`
	Jwt           JwtConfig           `envconfig:"JWT"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load(log logger.Logger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using system environment variables", nil)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	log.Info("Configuration loaded", map[string]interface{}{
		"server_port":   cfg.Server.Port,
		"cache_backend": cfg.Cache.Backend,
		"cache_ttl":     cfg.Cache.TTL.String(),
		"retry_count":   cfg.Resiliency.RetryCount,
	})

	return &cfg, nil
}
