package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/utafrali/gearcatalog/internal/aitags"
	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
	"github.com/utafrali/gearcatalog/internal/storage/cache"
)

// DefaultEnrichConcurrency bounds the products enriched in parallel.
const DefaultEnrichConcurrency = 12

// ObjectFetcher reads single storage objects.
type ObjectFetcher interface {
	GetObject(ctx context.Context, id int64) (*storage.Object, error)
}

// EnrichAI attaches the AI metadata of each product's storage objects.
type EnrichAI struct {
	fetcher     ObjectFetcher
	shared      cache.ObjectCache
	concurrency int
	logger      *slog.Logger
}

// NewEnrichAI creates the enrich-ai job. shared may be nil; successful
// fetches are stored there for later runs.
func NewEnrichAI(fetcher ObjectFetcher, shared cache.ObjectCache, concurrency int, logger *slog.Logger) *EnrichAI {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &EnrichAI{
		fetcher:     fetcher,
		shared:      shared,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (j *EnrichAI) Name() string { return "enrich-ai" }

func (j *EnrichAI) Run(ctx context.Context, products []domain.Product) ([]domain.Product, *Report, error) {
	report := newReport(j.Name(), len(products))
	loader := &objectLoader{
		fetcher: j.fetcher,
		shared:  j.shared,
		local:   cache.NewMemory(),
		logger:  j.logger,
	}

	changed := make([]bool, len(products))
	var items atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)
	for i := range products {
		g.Go(func() error {
			acc := aitags.New()
			for _, m := range products[i].Media {
				if !m.HasStorageID() {
					continue
				}
				items.Add(1)
				acc.Add(loader.load(gctx, *m.StorageID))
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			changed[i] = acc.Apply(&products[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("enrich products: %w", err)
	}

	report.Items = int(items.Load())
	report.Failed = int(loader.failed.Load())
	for i := range products {
		if changed[i] {
			report.markChanged(products[i].ID)
		}
	}
	return products, report, nil
}

// objectLoader fetches each storage object at most once per run. Failed
// fetches are remembered as empty for the rest of the run but never reach
// the shared cache.
type objectLoader struct {
	fetcher ObjectFetcher
	shared  cache.ObjectCache
	local   *cache.Memory
	group   singleflight.Group
	logger  *slog.Logger
	failed  atomic.Int64
}

func (l *objectLoader) load(ctx context.Context, id int64) []byte {
	if raw, ok, _ := l.local.Get(ctx, id); ok {
		return raw
	}
	v, _, _ := l.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		if raw, ok, _ := l.local.Get(ctx, id); ok {
			return raw, nil
		}
		raw := l.fetch(ctx, id)
		_ = l.local.Set(ctx, id, raw)
		return raw, nil
	})
	return v.([]byte)
}

func (l *objectLoader) fetch(ctx context.Context, id int64) []byte {
	if l.shared != nil {
		raw, ok, err := l.shared.Get(ctx, id)
		if err != nil {
			l.logger.WarnContext(ctx, "object cache read failed",
				slog.Int64("storage_id", id),
				slog.String("error", err.Error()),
			)
		} else if ok {
			return raw
		}
	}

	obj, err := l.fetcher.GetObject(ctx, id)
	if err != nil {
		l.failed.Add(1)
		l.logger.WarnContext(ctx, "storage object fetch failed",
			slog.Int64("storage_id", id),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if l.shared != nil {
		if err := l.shared.Set(ctx, id, obj.Raw); err != nil {
			l.logger.WarnContext(ctx, "object cache write failed",
				slog.Int64("storage_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	return obj.Raw
}
