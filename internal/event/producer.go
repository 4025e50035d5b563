package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/utafrali/gearcatalog/pkg/kafka"
)

// TopicProductsUpdated carries notifications that the product file changed.
const TopicProductsUpdated = "catalog.products.updated"

// SourceCatalogJobs identifies events emitted by the batch jobs.
const SourceCatalogJobs = "catalog-jobs"

// ProductsUpdatedData is the payload for a catalog.products.updated event.
type ProductsUpdatedData struct {
	Job        string   `json:"job"`
	File       string   `json:"file"`
	ProductIDs []string `json:"product_ids"`
	Total      int      `json:"total"`
}

// Producer publishes catalog events.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new catalog event producer.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductsUpdated announces the ids changed by a batch job run. Runs
// that changed nothing publish no event.
func (p *Producer) PublishProductsUpdated(ctx context.Context, data ProductsUpdatedData) error {
	if len(data.ProductIDs) == 0 {
		return nil
	}

	event, err := pkgkafka.NewEvent(TopicProductsUpdated, SourceCatalogJobs, data.Job, data)
	if err != nil {
		return fmt.Errorf("create products.updated event: %w", err)
	}
	event.WithExtension("job", data.Job)

	if err := p.kafka.Publish(ctx, TopicProductsUpdated, event); err != nil {
		return fmt.Errorf("publish products.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published products.updated event",
		slog.String("job", data.Job),
		slog.Int("changed", len(data.ProductIDs)),
	)
	return nil
}

// Check reports whether the brokers can be reached. Publishers without a
// connectivity probe always pass.
func (p *Producer) Check(ctx context.Context) error {
	pinger, ok := p.kafka.(interface{ Ping(context.Context) error })
	if !ok {
		return nil
	}
	return pinger.Ping(ctx)
}

// Close flushes and closes the underlying publisher.
func (p *Producer) Close() error {
	return p.kafka.Close()
}
