package jsonfile

import (
	"context"
	"fmt"

	"github.com/utafrali/gearcatalog/internal/domain"
)

// CategoryMediaRepository reads the category media document.
type CategoryMediaRepository struct {
	path       string
	strict     bool
	collection cached[*domain.CategoryMediaCollection]
}

// NewCategoryMediaRepository creates a CategoryMediaRepository for path.
func NewCategoryMediaRepository(path string, opts Options) *CategoryMediaRepository {
	return &CategoryMediaRepository{
		path:       path,
		strict:     opts.Strict,
		collection: cached[*domain.CategoryMediaCollection]{enabled: opts.Cache},
	}
}

// Collection returns the category media document. A missing file in lenient
// mode yields an empty collection.
func (r *CategoryMediaRepository) Collection(ctx context.Context) (*domain.CategoryMediaCollection, error) {
	return r.collection.get(func() (*domain.CategoryMediaCollection, error) {
		var c domain.CategoryMediaCollection
		if _, err := readJSON(r.path, r.strict, &c); err != nil {
			return nil, fmt.Errorf("load category media: %w", err)
		}
		if c.Media == nil {
			c.Media = []domain.CategoryMedia{}
		}
		return &c, nil
	})
}
