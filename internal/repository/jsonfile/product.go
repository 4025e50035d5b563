package jsonfile

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
	apperrors "github.com/utafrali/gearcatalog/pkg/errors"
)

// ProductRepository reads products from a JSON list and enriches their
// categories once per load.
type ProductRepository struct {
	path       string
	strict     bool
	normalizer *taxonomy.Normalizer
	taxonomies *TaxonomyRepository
	logger     *slog.Logger
	products   cached[[]domain.Product]
}

// NewProductRepository creates a ProductRepository for path.
func NewProductRepository(
	path string,
	opts Options,
	normalizer *taxonomy.Normalizer,
	taxonomies *TaxonomyRepository,
	logger *slog.Logger,
) *ProductRepository {
	return &ProductRepository{
		path:       path,
		strict:     opts.Strict,
		normalizer: normalizer,
		taxonomies: taxonomies,
		logger:     logger,
		products:   cached[[]domain.Product]{enabled: opts.Cache},
	}
}

// List returns the enriched products in file order. The slice is the
// caller's to reorder.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	products, err := r.products.get(func() ([]domain.Product, error) {
		return r.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(products), nil
}

func (r *ProductRepository) load(ctx context.Context) ([]domain.Product, error) {
	products, err := r.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	enricher, err := r.taxonomies.Enricher(ctx, r.normalizer)
	if err != nil {
		return nil, fmt.Errorf("prepare category enrichment: %w", err)
	}
	enriched := enricher.EnrichAll(products)

	r.logger.DebugContext(ctx, "products loaded",
		slog.String("path", r.path),
		slog.Int("count", len(products)),
		slog.Int("enriched", enriched),
	)
	return products, nil
}

// GetByID returns the product with the given id.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}
	return nil, apperrors.NotFound("product", id)
}

// ReadAll returns the products exactly as stored.
func (r *ProductRepository) ReadAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if _, err := readJSON(r.path, r.strict, &products); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// Save writes products back to the file and drops any cached copy.
func (r *ProductRepository) Save(ctx context.Context, products []domain.Product) error {
	if err := writeJSON(r.path, products); err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	r.products.reset()
	return nil
}
