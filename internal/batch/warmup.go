package batch

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
)

// DefaultWarmupConcurrency keeps the load on the media endpoint low.
const DefaultWarmupConcurrency = 2

// Rendition is a named media query string.
type Rendition struct {
	Name   string
	Params string
}

// WarmupRenditions are fetched for every storage id.
var WarmupRenditions = []Rendition{
	{Name: "thumbnail", Params: storage.ThumbParams},
	{Name: "full", Params: storage.PreviewParams},
}

// MediaFetcher downloads media renditions.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, id int64, params string) (int64, error)
}

// WarmupCache requests every stored image once per rendition so the storage
// service has them cached. Products are not modified.
type WarmupCache struct {
	fetcher     MediaFetcher
	concurrency int
	logger      *slog.Logger
}

// NewWarmupCache creates the warmup-cache job.
func NewWarmupCache(fetcher MediaFetcher, concurrency int, logger *slog.Logger) *WarmupCache {
	if concurrency <= 0 {
		concurrency = DefaultWarmupConcurrency
	}
	return &WarmupCache{fetcher: fetcher, concurrency: concurrency, logger: logger}
}

func (j *WarmupCache) Name() string { return "warmup-cache" }

func (j *WarmupCache) Run(ctx context.Context, products []domain.Product) ([]domain.Product, *Report, error) {
	ids := storageIDs(products)
	report := newReport(j.Name(), len(products))
	report.Items = len(ids) * len(WarmupRenditions)

	var ok, failed, size atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.concurrency)

	for _, id := range ids {
		for _, r := range WarmupRenditions {
			g.Go(func() error {
				n, err := j.fetcher.FetchMedia(gctx, id, r.Params)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					failed.Add(1)
					j.logger.WarnContext(gctx, "warmup fetch failed",
						slog.Int64("storage_id", id),
						slog.String("rendition", r.Name),
						slog.String("error", err.Error()),
					)
					return nil
				}
				ok.Add(1)
				size.Add(n)
				j.logger.DebugContext(gctx, "warmed up",
					slog.Int64("storage_id", id),
					slog.String("rendition", r.Name),
					slog.Int64("bytes", n),
				)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("warm up media: %w", err)
	}

	report.Matched = int(ok.Load())
	report.Failed = int(failed.Load())
	report.Bytes = size.Load()
	return products, report, nil
}

// storageIDs returns the distinct storage ids of all media, sorted.
func storageIDs(products []domain.Product) []int64 {
	seen := make(map[int64]struct{})
	for i := range products {
		for _, m := range products[i].Media {
			if m.HasStorageID() {
				seen[*m.StorageID] = struct{}{}
			}
		}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
