package repository

import (
	"context"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
)

// ProductRepository serves enriched products to the API.
type ProductRepository interface {
	// List returns every product in load order, with categories enriched.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID returns one enriched product or a not-found error.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// ProductStore reads and writes the raw product source. Batch jobs use it.
type ProductStore interface {
	// ReadAll returns the products as stored, without enrichment.
	ReadAll(ctx context.Context) ([]domain.Product, error)

	// Save replaces the stored products.
	Save(ctx context.Context, products []domain.Product) error
}

// TaxonomyRepository serves the category tree.
type TaxonomyRepository interface {
	Forest(ctx context.Context) (taxonomy.Forest, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

// CategoryMediaRepository serves the category media document.
type CategoryMediaRepository interface {
	Collection(ctx context.Context) (*domain.CategoryMediaCollection, error)
}
