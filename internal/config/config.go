// Package config provides configuration management for the storefront services.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"storefront/pkg/utils"
)

// Configuration validation errors.
var (
	ErrInvalidTransport         = errors.New("upstream.transport must be 'graphql' or 'rest'")
	ErrMissingGraphQLURL        = errors.New("upstream.graphql_url is required for the graphql transport")
	ErrMissingRESTURL           = errors.New("upstream.rest_url is required for the rest transport")
	ErrInvalidEndpoint          = errors.New("upstream endpoint must be an absolute http(s) URL")
	ErrMissingCredentials       = errors.New("upstream.consumer_key and consumer_secret are required for the rest transport")
	ErrInvalidFetchSize         = errors.New("upstream.fetch_size must be between 1 and 500")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrInvalidPageSize          = errors.New("catalog.page_size must be at least 1")
	ErrInvalidMaxPrice          = errors.New("catalog.max_price must be positive")
	ErrInvalidThreshold         = errors.New("catalog.international_threshold must be non-negative")
	ErrInvalidShippingCost      = errors.New("shipping costs and thresholds must be non-negative")
	ErrInvalidCacheBackend      = errors.New("cache.backend must be one of: memory, redis, none")
	ErrInvalidCacheTTL          = errors.New("cache.ttl_sec must be at least 1 when caching is enabled")
	ErrMissingRedisURL          = errors.New("cache.redis_url is required for the redis backend")
	ErrMissingServerAddr        = errors.New("server.addr is required")
	ErrInvalidFlashSale         = errors.New("flash_sale.window_sec and flash_sale.limit must be positive")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat         = errors.New("logging.format must be 'console' or 'json'")
)

// Transports.
const (
	TransportGraphQL = "graphql"
	TransportREST    = "rest"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Environment overrides, applied after the YAML file.
const (
	EnvGraphQLURL     = "STOREFRONT_GRAPHQL_URL"
	EnvRESTURL        = "STOREFRONT_REST_URL"
	EnvConsumerKey    = "WC_CONSUMER_KEY"
	EnvConsumerSecret = "WC_CONSUMER_SECRET"
	EnvRedisURL       = "REDIS_URL"
	EnvLogLevel       = "STOREFRONT_LOG_LEVEL"
	EnvServerAddr     = "STOREFRONT_ADDR"
)

// Config represents the complete storefront configuration.
type Config struct {
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	FlashSale FlashSaleConfig `yaml:"flash_sale"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Shipping  ShippingConfig  `yaml:"shipping"`
}

// UpstreamConfig describes the headless commerce API.
type UpstreamConfig struct {
	Transport      string      `yaml:"transport"`
	GraphQLURL     string      `yaml:"graphql_url"`
	RESTURL        string      `yaml:"rest_url"`
	ConsumerKey    string      `yaml:"consumer_key"`
	ConsumerSecret string      `yaml:"consumer_secret"`
	Retry          RetryPolicy `yaml:"retry"`
	FetchSize      int         `yaml:"fetch_size"`
	// Fallback retries failed calls against the other transport.
	Fallback bool `yaml:"fallback"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// CatalogConfig holds listing defaults.
type CatalogConfig struct {
	PageSize               int     `yaml:"page_size"`
	MaxPrice               float64 `yaml:"max_price"`
	InternationalThreshold float64 `yaml:"international_threshold"`
}

// ShippingConfig holds shipping estimator constants.
type ShippingConfig struct {
	FreeThreshold       float64 `yaml:"free_threshold"`
	DefaultNationalCost float64 `yaml:"default_national_cost"`
	InternationalCost   float64 `yaml:"international_cost"`
}

// CacheConfig selects the upstream response cache.
type CacheConfig struct {
	Backend  string `yaml:"backend"`
	RedisURL string `yaml:"redis_url"`
	TTLSec   int    `yaml:"ttl_sec"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// FlashSaleConfig configures the flash sale listing and its countdown.
type FlashSaleConfig struct {
	Category  string `yaml:"category"`
	WindowSec int    `yaml:"window_sec"`
	Limit     int    `yaml:"limit"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			Transport:  TransportGraphQL,
			GraphQLURL: "http://localhost:8080/graphql",
			RESTURL:    "http://localhost:8080/wp-json/wc/v3",
			FetchSize:  50,
			Retry: RetryPolicy{
				MaxAttempts:       1,
				InitialDelayMs:    500,
				MaxDelayMs:        5000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Catalog: CatalogConfig{
			PageSize:               8,
			MaxPrice:               10000000,
			InternationalThreshold: 500000,
		},
		Shipping: ShippingConfig{
			FreeThreshold:       150000,
			DefaultNationalCost: 15000,
			InternationalCost:   35000,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			TTLSec:  300,
		},
		Server: ServerConfig{
			Addr: ":8081",
		},
		FlashSale: FlashSaleConfig{
			Category:  "ofertas",
			WindowSec: 2*3600 + 45*60 + 30,
			Limit:     4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from YAML file. Missing keys keep their defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.ApplyEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load loads an optional .env file, then the YAML file if path is non-empty,
// otherwise the defaults with environment overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}

	if path != "" {
		return LoadConfig(path)
	}

	cfg := Default()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	return nil
}

// ApplyEnv overrides endpoints and secrets from the environment.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		EnvGraphQLURL:     &c.Upstream.GraphQLURL,
		EnvRESTURL:        &c.Upstream.RESTURL,
		EnvConsumerKey:    &c.Upstream.ConsumerKey,
		EnvConsumerSecret: &c.Upstream.ConsumerSecret,
		EnvRedisURL:       &c.Cache.RedisURL,
		EnvLogLevel:       &c.Logging.Level,
		EnvServerAddr:     &c.Server.Addr,
	}

	for key, target := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*target = v
		}
	}
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Upstream.validate(); err != nil {
		return err
	}

	// Validate catalog config
	if c.Catalog.PageSize < 1 {
		return ErrInvalidPageSize
	}

	if c.Catalog.MaxPrice <= 0 {
		return ErrInvalidMaxPrice
	}

	if c.Catalog.InternationalThreshold < 0 {
		return ErrInvalidThreshold
	}

	if c.Shipping.FreeThreshold < 0 || c.Shipping.DefaultNationalCost < 0 || c.Shipping.InternationalCost < 0 {
		return ErrInvalidShippingCost
	}

	// Validate cache config
	switch c.Cache.Backend {
	case CacheNone:
	case CacheMemory:
		if c.Cache.TTLSec < 1 {
			return ErrInvalidCacheTTL
		}
	case CacheRedis:
		if c.Cache.TTLSec < 1 {
			return ErrInvalidCacheTTL
		}

		if c.Cache.RedisURL == "" {
			return ErrMissingRedisURL
		}
	default:
		return ErrInvalidCacheBackend
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return ErrMissingServerAddr
	}

	if c.FlashSale.WindowSec < 1 || c.FlashSale.Limit < 1 {
		return ErrInvalidFlashSale
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

func (u *UpstreamConfig) validate() error {
	switch u.Transport {
	case TransportGraphQL:
		if err := u.validateGraphQL(); err != nil {
			return err
		}

		if u.Fallback {
			if err := u.validateREST(); err != nil {
				return fmt.Errorf("fallback: %w", err)
			}
		}
	case TransportREST:
		if err := u.validateREST(); err != nil {
			return err
		}

		if u.Fallback {
			if err := u.validateGraphQL(); err != nil {
				return fmt.Errorf("fallback: %w", err)
			}
		}
	default:
		return ErrInvalidTransport
	}

	if u.FetchSize < 1 || u.FetchSize > 500 {
		return ErrInvalidFetchSize
	}

	// Validate retry policy
	if u.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if u.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if u.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if u.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	return nil
}

func (u *UpstreamConfig) validateGraphQL() error {
	if u.GraphQLURL == "" {
		return ErrMissingGraphQLURL
	}

	if !utils.NewHTTPHelper().IsValidURL(u.GraphQLURL) {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, u.GraphQLURL)
	}

	return nil
}

func (u *UpstreamConfig) validateREST() error {
	if u.RESTURL == "" {
		return ErrMissingRESTURL
	}

	if !utils.NewHTTPHelper().IsValidURL(u.RESTURL) {
		return fmt.Errorf("%w: %s", ErrInvalidEndpoint, u.RESTURL)
	}

	if u.ConsumerKey == "" || u.ConsumerSecret == "" {
		return ErrMissingCredentials
	}

	return nil
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// TTL returns the cache entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSec) * time.Second
}

// Window returns the flash sale countdown length.
func (f *FlashSaleConfig) Window() time.Duration {
	return time.Duration(f.WindowSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Transport: %s, PageSize: %d, Cache: %s, Addr: %s}",
		c.Upstream.Transport,
		c.Catalog.PageSize,
		c.Cache.Backend,
		c.Server.Addr,
	)
}
