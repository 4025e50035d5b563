package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
)

// TaxonomyRepository reads the category tree from a JSON file.
type TaxonomyRepository struct {
	path   string
	strict bool
	forest cached[taxonomy.Forest]
}

// NewTaxonomyRepository creates a TaxonomyRepository for path.
func NewTaxonomyRepository(path string, opts Options) *TaxonomyRepository {
	return &TaxonomyRepository{
		path:   path,
		strict: opts.Strict,
		forest: cached[taxonomy.Forest]{enabled: opts.Cache},
	}
}

// Forest returns the category tree.
func (r *TaxonomyRepository) Forest(ctx context.Context) (taxonomy.Forest, error) {
	return r.forest.get(func() (taxonomy.Forest, error) {
		return taxonomy.LoadFile(r.path, r.strict)
	})
}

// Categories returns the flattened category list.
func (r *TaxonomyRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	forest, err := r.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.ListCategories(forest), nil
}

// Enricher builds a product enricher over the current tree.
func (r *TaxonomyRepository) Enricher(ctx context.Context, normalizer *taxonomy.Normalizer) (*taxonomy.Enricher, error) {
	forest, err := r.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return taxonomy.NewEnricher(normalizer, taxonomy.NewResolver(forest)), nil
}

// Check reports whether the taxonomy file is usable. It backs the readiness
// probe. Outside strict mode a missing file is served as an empty tree and
// passes.
func (r *TaxonomyRepository) Check(ctx context.Context) error {
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !r.strict {
			return nil
		}
		return fmt.Errorf("taxonomy source: %w", err)
	}
	return nil
}
