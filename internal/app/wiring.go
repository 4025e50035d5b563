package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/gearcatalog/internal/config"
	"github.com/utafrali/gearcatalog/internal/event"
	"github.com/utafrali/gearcatalog/internal/repository/jsonfile"
	"github.com/utafrali/gearcatalog/internal/storage"
	"github.com/utafrali/gearcatalog/internal/storage/cache"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
	"github.com/utafrali/gearcatalog/pkg/database"
	"github.com/utafrali/gearcatalog/pkg/httpclient"
	pkgkafka "github.com/utafrali/gearcatalog/pkg/kafka"
)

// Repositories groups the file-backed data sources.
type Repositories struct {
	Products      *jsonfile.ProductRepository
	Taxonomy      *jsonfile.TaxonomyRepository
	CategoryMedia *jsonfile.CategoryMediaRepository
	Normalizer    *taxonomy.Normalizer
}

// NewRepositories opens the data files named in cfg.
func NewRepositories(cfg *config.Config, logger *slog.Logger) (*Repositories, error) {
	rules, err := taxonomy.LoadRules(cfg.TaxonomyRulesFile)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy rules: %w", err)
	}
	normalizer := taxonomy.NewNormalizer(rules)

	opts := jsonfile.Options{Strict: cfg.DataStrict, Cache: cfg.DataCache}
	taxonomies := jsonfile.NewTaxonomyRepository(cfg.TaxonomyFile, opts)

	return &Repositories{
		Products:      jsonfile.NewProductRepository(cfg.ProductsFile, opts, normalizer, taxonomies, logger),
		Taxonomy:      taxonomies,
		CategoryMedia: jsonfile.NewCategoryMediaRepository(cfg.CategoryMediaFile, opts),
		Normalizer:    normalizer,
	}, nil
}

// NewStorageClient builds the storage service client behind a circuit
// breaker. While the breaker is open calls fail fast with a 503 error.
func NewStorageClient(cfg *config.Config, logger *slog.Logger) *storage.Client {
	base := httpclient.New(cfg.StorageHTTPConfig())
	breaker := httpclient.NewCircuitBreakerClient(base, cfg.StorageBreakerConfig(), logger)
	return storage.NewClient(cfg.StorageURL, cfg.StorageAPIKey, breaker, logger)
}

// NewEventProducer returns the catalog event producer. Without brokers the
// events are only logged.
func NewEventProducer(cfg *config.Config, logger *slog.Logger) *event.Producer {
	publisher := pkgkafka.NewPublisher(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	return event.NewProducer(publisher, logger)
}

// NewObjectCache returns the shared storage object cache: Redis when
// configured, process memory otherwise. The returned close func releases the
// Redis connection.
func NewObjectCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.ObjectCache, func() error, error) {
	if !cfg.RedisEnabled() {
		return cache.NewMemory(), func() error { return nil }, nil
	}
	client, err := database.NewRedisClient(ctx, cfg.RedisConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("using redis object cache", slog.Duration("ttl", cfg.ObjectCacheTTL))
	return cache.NewRedis(client, cfg.ObjectCacheTTL), client.Close, nil
}
