package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/gearcatalog/pkg/config"
	"github.com/utafrali/gearcatalog/pkg/database"
	"github.com/utafrali/gearcatalog/pkg/httpclient"
	"github.com/utafrali/gearcatalog/pkg/tracing"
)

// Config holds all configuration for the catalog API and the catalogctl jobs.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`

	// HTTP server
	HTTPPort int `env:"CATALOG_HTTP_PORT" envDefault:"8000"`

	// Shared secret expected in the X-API-Key header.
	APIKey string `env:"API_KEY" envDefault:"oneal_demo_token"`
	// Client cache lifetime of the public category tree. Zero sends no-store.
	CategoriesMaxAge time.Duration `env:"CATEGORIES_MAX_AGE" envDefault:"5m"`

	// Data files
	ProductsFile      string `env:"PRODUCTS_FILE" envDefault:"data/products.json"`
	TaxonomyFile      string `env:"TAXONOMY_FILE" envDefault:"data/kategorien.json"`
	CategoryMediaFile string `env:"CATEGORY_MEDIA_FILE" envDefault:"data/category-media.json"`
	TaxonomyRulesFile string `env:"TAXONOMY_RULES_FILE" envDefault:""`

	// DataStrict turns a missing data file into an error instead of an empty
	// collection.
	DataStrict bool `env:"DATA_STRICT" envDefault:"false"`
	// DataCache loads each data file once per process instead of per request.
	DataCache bool `env:"DATA_CACHE" envDefault:"false"`

	// Storage service
	StorageURL            string        `env:"STORAGE_API_URL" envDefault:"https://api-storage.arkturian.com"`
	StorageAPIKey         string        `env:"STORAGE_API_KEY" envDefault:"oneal_demo_token"`
	StorageConnectTimeout time.Duration `env:"STORAGE_CONNECT_TIMEOUT" envDefault:"5s"`
	StorageReadTimeout    time.Duration `env:"STORAGE_READ_TIMEOUT" envDefault:"10s"`

	// Circuit breaker around the storage client
	BreakerTimeout      time.Duration `env:"STORAGE_BREAKER_TIMEOUT" envDefault:"30s"`
	BreakerFailureRatio float64       `env:"STORAGE_BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32        `env:"STORAGE_BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Batch jobs
	EnrichConcurrency int           `env:"ENRICH_CONCURRENCY" envDefault:"12"`
	WarmupConcurrency int           `env:"WARMUP_CONCURRENCY" envDefault:"2"`
	ObjectCacheTTL    time.Duration `env:"OBJECT_CACHE_TTL" envDefault:"1h"`

	// Redis (optional, backs the storage object cache of the batch jobs)
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Kafka (optional, empty disables event publishing)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if c.StorageURL == "" {
		return fmt.Errorf("STORAGE_API_URL is required")
	}
	if c.StorageConnectTimeout <= 0 || c.StorageReadTimeout <= 0 {
		return fmt.Errorf("storage timeouts must be positive")
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1.0 {
		return fmt.Errorf("STORAGE_BREAKER_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.BreakerFailureRatio)
	}
	if c.EnrichConcurrency < 1 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be at least 1, got %d", c.EnrichConcurrency)
	}
	if c.WarmupConcurrency < 1 {
		return fmt.Errorf("WARMUP_CONCURRENCY must be at least 1, got %d", c.WarmupConcurrency)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// StorageHTTPConfig returns the HTTP client settings for the storage service.
// Requests are never retried.
func (c *Config) StorageHTTPConfig() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Name = "storage"
	hc.ConnectTimeout = c.StorageConnectTimeout
	hc.ReadTimeout = c.StorageReadTimeout
	hc.Timeout = c.StorageConnectTimeout + c.StorageReadTimeout
	hc.MaxRetries = 0
	return hc
}

// StorageBreakerConfig returns the circuit breaker settings for the storage
// client.
func (c *Config) StorageBreakerConfig() httpclient.CircuitBreakerConfig {
	cb := httpclient.DefaultCircuitBreakerConfig("storage")
	cb.Timeout = c.BreakerTimeout
	cb.FailureRatio = c.BreakerFailureRatio
	cb.MinRequests = c.BreakerMinRequests
	return cb
}

// RedisEnabled reports whether a Redis URL was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// RedisConfig returns the Redis connection settings.
func (c *Config) RedisConfig() database.RedisConfig {
	rc := database.DefaultRedisConfig()
	rc.URL = c.RedisURL
	return rc
}

// TracingConfig returns the OpenTelemetry settings for the given service.
func (c *Config) TracingConfig(serviceName string) tracing.Config {
	tc := tracing.DefaultConfig(serviceName)
	tc.Environment = c.Environment
	tc.OTLPEndpoint = c.OTELEndpoint
	tc.SampleRate = c.OTELSampleRate
	tc.Enabled = c.OTELEnabled
	return tc
}
