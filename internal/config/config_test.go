package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Helper to create a temp config file.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp config file: %v", err)
	}

	return configPath
}

// validConfigYAML is a minimal valid configuration.
const validConfigYAML = `
upstream:
  transport: "rest"
  rest_url: "https://shop.example.com/wp-json/wc/v3"
  consumer_key: "ck_test"
  consumer_secret: "cs_test"
  fetch_size: 50
  retry:
    max_attempts: 3
    initial_delay_ms: 100
    max_delay_ms: 5000
    backoff_multiplier: 2.0
    timeout_sec: 30
catalog:
  page_size: 12
  max_price: 5000000
cache:
  backend: "memory"
  ttl_sec: 60
logging:
  level: "debug"
  format: "json"
`

func TestLoadConfig_Valid(t *testing.T) {
	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Upstream.Transport != TransportREST {
		t.Errorf("Expected transport rest, got %s", cfg.Upstream.Transport)
	}

	if cfg.Catalog.PageSize != 12 {
		t.Errorf("Expected page size 12, got %d", cfg.Catalog.PageSize)
	}

	if cfg.Cache.TTL() != time.Minute {
		t.Errorf("Expected TTL 1m, got %v", cfg.Cache.TTL())
	}

	// Keys absent from the file keep their defaults
	if cfg.Catalog.InternationalThreshold != 500000 {
		t.Errorf("Expected default threshold 500000, got %v", cfg.Catalog.InternationalThreshold)
	}

	if cfg.Shipping.FreeThreshold != 150000 {
		t.Errorf("Expected default free threshold 150000, got %v", cfg.Shipping.FreeThreshold)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := createTempConfigFile(t, "invalid: yaml: content: [}")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvConsumerSecret, "cs_from_env")
	t.Setenv(EnvLogLevel, "warn")

	configPath := createTempConfigFile(t, validConfigYAML)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Upstream.ConsumerSecret != "cs_from_env" {
		t.Errorf("Expected secret from env, got %s", cfg.Upstream.ConsumerSecret)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected level from env, got %s", cfg.Logging.Level)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envPath, []byte("STOREFRONT_GRAPHQL_URL=https://cms.example.com/graphql\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// godotenv does not override variables already present, so make sure it is unset
	// and restored afterwards.
	t.Setenv(EnvGraphQLURL, "")
	os.Unsetenv(EnvGraphQLURL)

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upstream.GraphQLURL != "https://cms.example.com/graphql" {
		t.Errorf("Expected GraphQL URL from .env, got %s", cfg.Upstream.GraphQLURL)
	}
}

func TestLoadEnv_MissingFileIgnored(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("LoadEnv should ignore missing files, got %v", err)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config should validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"unknown transport", func(c *Config) { c.Upstream.Transport = "soap" }, ErrInvalidTransport},
		{"missing graphql url", func(c *Config) { c.Upstream.GraphQLURL = "" }, ErrMissingGraphQLURL},
		{"relative graphql url", func(c *Config) { c.Upstream.GraphQLURL = "/graphql" }, ErrInvalidEndpoint},
		{"rest without credentials", func(c *Config) { c.Upstream.Transport = TransportREST }, ErrMissingCredentials},
		{"rest without url", func(c *Config) {
			c.Upstream.Transport = TransportREST
			c.Upstream.RESTURL = ""
		}, ErrMissingRESTURL},
		{"graphql fallback without credentials", func(c *Config) { c.Upstream.Fallback = true }, ErrMissingCredentials},
		{"rest fallback without graphql url", func(c *Config) {
			c.Upstream.Transport = TransportREST
			c.Upstream.ConsumerKey, c.Upstream.ConsumerSecret = "ck", "cs"
			c.Upstream.Fallback = true
			c.Upstream.GraphQLURL = ""
		}, ErrMissingGraphQLURL},
		{"zero fetch size", func(c *Config) { c.Upstream.FetchSize = 0 }, ErrInvalidFetchSize},
		{"zero attempts", func(c *Config) { c.Upstream.Retry.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"negative delay", func(c *Config) { c.Upstream.Retry.InitialDelayMs = -1 }, ErrInvalidInitialDelay},
		{"shrinking backoff", func(c *Config) { c.Upstream.Retry.BackoffMultiplier = 0.5 }, ErrInvalidBackoffMultiplier},
		{"zero timeout", func(c *Config) { c.Upstream.Retry.TimeoutSec = 0 }, ErrInvalidTimeout},
		{"zero page size", func(c *Config) { c.Catalog.PageSize = 0 }, ErrInvalidPageSize},
		{"zero max price", func(c *Config) { c.Catalog.MaxPrice = 0 }, ErrInvalidMaxPrice},
		{"negative threshold", func(c *Config) { c.Catalog.InternationalThreshold = -1 }, ErrInvalidThreshold},
		{"negative shipping cost", func(c *Config) { c.Shipping.InternationalCost = -5 }, ErrInvalidShippingCost},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, ErrInvalidCacheBackend},
		{"memory cache without ttl", func(c *Config) { c.Cache.TTLSec = 0 }, ErrInvalidCacheTTL},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }, ErrMissingRedisURL},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, ErrMissingServerAddr},
		{"zero flash window", func(c *Config) { c.FlashSale.WindowSec = 0 }, ErrInvalidFlashSale},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, ErrInvalidLogFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_CacheNoneSkipsTTL(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = CacheNone
	cfg.Cache.TTLSec = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected no error for disabled cache, got %v", err)
	}
}

// --- RetryPolicy Tests ---

func TestRetryPolicy_GetRetryDelay(t *testing.T) {
	rp := RetryPolicy{
		InitialDelayMs:    100,
		MaxDelayMs:        1000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 0},                        // First attempt, no delay
		{2, 200 * time.Millisecond},   // 100 * 2
		{3, 400 * time.Millisecond},   // 100 * 2 * 2
		{4, 800 * time.Millisecond},   // 100 * 2 * 2 * 2
		{5, 1000 * time.Millisecond},  // Capped at max
		{10, 1000 * time.Millisecond}, // Still capped
	}

	for _, tt := range tests {
		got := rp.GetRetryDelay(tt.attempt)
		if got != tt.expected {
			t.Errorf("GetRetryDelay(%d) = %v, want %v", tt.attempt, got, tt.expected)
		}
	}
}

func TestRetryPolicy_GetTimeout(t *testing.T) {
	rp := RetryPolicy{TimeoutSec: 30}
	expected := 30 * time.Second

	if got := rp.GetTimeout(); got != expected {
		t.Errorf("GetTimeout() = %v, want %v", got, expected)
	}
}

func TestFlashSaleConfig_Window(t *testing.T) {
	f := Default().FlashSale

	want := 2*time.Hour + 45*time.Minute + 30*time.Second
	if got := f.Window(); got != want {
		t.Errorf("Window() = %v, want %v", got, want)
	}
}

func TestConfig_SaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Catalog.PageSize = 24

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Catalog.PageSize != 24 {
		t.Errorf("Expected page size 24, got %d", loaded.Catalog.PageSize)
	}
}
