// Package batch holds the offline jobs that rewrite the product file.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/event"
	"github.com/utafrali/gearcatalog/internal/repository"
)

// Job transforms the product list. It returns the list to persist, which
// may be the input modified in place.
type Job interface {
	Name() string
	Run(ctx context.Context, products []domain.Product) ([]domain.Product, *Report, error)
}

// catalogBuilder is implemented by jobs that build the product list from
// scratch. The runner does not read the stored products for them.
type catalogBuilder interface {
	replacesCatalog()
}

// Report summarises a job run.
type Report struct {
	Job      string
	Products int
	Items    int
	Matched  int
	Failed   int
	Bytes    int64
	Changed  []string
	DryRun   bool
	Duration time.Duration
}

func newReport(job string, products int) *Report {
	return &Report{Job: job, Products: products}
}

func (r *Report) markChanged(id string) {
	if n := len(r.Changed); n > 0 && r.Changed[n-1] == id {
		return
	}
	r.Changed = append(r.Changed, id)
}

// Runner loads the product file, runs a job and writes back the result.
type Runner struct {
	store  repository.ProductStore
	events *event.Producer
	file   string
	dryRun bool
	logger *slog.Logger
}

// NewRunner creates a job runner. file only labels published events.
func NewRunner(store repository.ProductStore, events *event.Producer, file string, logger *slog.Logger) *Runner {
	return &Runner{
		store:  store,
		events: events,
		file:   file,
		logger: logger,
	}
}

// WithDryRun returns a copy of the runner that never writes or publishes.
func (r *Runner) WithDryRun(dryRun bool) *Runner {
	cpy := *r
	cpy.dryRun = dryRun
	return &cpy
}

// Run executes job. Products are saved and an update event is published only
// when the job changed something and was not a dry run. A failed publish is
// logged; the saved file stays.
func (r *Runner) Run(ctx context.Context, job Job) (*Report, error) {
	start := time.Now()
	logger := r.logger.With(slog.String("job", job.Name()))

	var products []domain.Product
	if _, fresh := job.(catalogBuilder); !fresh {
		var err error
		products, err = r.store.ReadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: read products: %w", job.Name(), err)
		}
	}

	out, report, err := job.Run(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name(), err)
	}
	report.Duration = time.Since(start)
	if r.dryRun {
		report.DryRun = true
	}

	if report.DryRun || len(report.Changed) == 0 {
		logger.InfoContext(ctx, "job finished without writing",
			slog.Int("products", report.Products),
			slog.Int("changed", len(report.Changed)),
			slog.Bool("dry_run", report.DryRun),
		)
		return report, nil
	}

	if err := r.store.Save(ctx, out); err != nil {
		return report, fmt.Errorf("%s: save products: %w", job.Name(), err)
	}

	if r.events != nil {
		if err := r.events.PublishProductsUpdated(ctx, event.ProductsUpdatedData{
			Job:        job.Name(),
			File:       r.file,
			ProductIDs: report.Changed,
			Total:      len(out),
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish products.updated event",
				slog.String("error", err.Error()),
			)
		}
	}

	logger.InfoContext(ctx, "job finished",
		slog.Int("products", report.Products),
		slog.Int("items", report.Items),
		slog.Int("matched", report.Matched),
		slog.Int("failed", report.Failed),
		slog.Int("changed", len(report.Changed)),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}
