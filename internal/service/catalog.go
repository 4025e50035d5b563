package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/gearcatalog/internal/catalog"
	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/repository"
	apperrors "github.com/utafrali/gearcatalog/pkg/errors"
)

// MediaURLBuilder turns a storage object id into a delivery URL.
type MediaURLBuilder interface {
	MediaURL(id int64, params string) string
}

// CatalogService implements the read side of the catalog API.
type CatalogService struct {
	products   repository.ProductRepository
	taxonomies repository.TaxonomyRepository
	media      repository.CategoryMediaRepository
	urls       MediaURLBuilder
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	products repository.ProductRepository,
	taxonomies repository.TaxonomyRepository,
	media repository.CategoryMediaRepository,
	urls MediaURLBuilder,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		taxonomies: taxonomies,
		media:      media,
		urls:       urls,
		logger:     logger,
	}
}

// ListProductsInput holds the parameters of a product listing.
type ListProductsInput struct {
	Query  catalog.Query
	Sort   catalog.SortKey
	Order  catalog.Order
	Limit  int
	Offset int
}

// ProductPage is one page of a filtered product listing. Count is the number
// of matches before pagination.
type ProductPage struct {
	Count    int
	Products []domain.Product
}

// ListProducts filters, sorts and paginates the enriched product list.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	filtered := catalog.Filter(all, input.Query)
	if input.Sort != catalog.SortNone {
		catalog.Sort(filtered, input.Sort, input.Order)
	}

	return &ProductPage{
		Count:    len(filtered),
		Products: catalog.Paginate(filtered, input.Limit, input.Offset),
	}, nil
}

// GetProduct returns one enriched product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Facets aggregates the filter values over the whole catalog.
func (s *CatalogService) Facets(ctx context.Context) (catalog.Facets, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return catalog.Facets{}, fmt.Errorf("list products: %w", err)
	}
	return catalog.BuildFacets(all), nil
}

// Categories lists the flattened taxonomy. Each category carries the preview
// URLs of its presentation media, matched by category name.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.taxonomies.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	coll, err := s.media.Collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category media: %w", err)
	}

	byName := make(map[string][]string)
	for _, m := range coll.Media {
		if m.Dimension != domain.DimensionPresentation || m.StorageID == 0 {
			continue
		}
		byName[m.DimensionValue] = append(byName[m.DimensionValue], s.urls.MediaURL(m.StorageID, ""))
	}

	for i := range cats {
		if urls, ok := byName[cats[i].Name]; ok {
			cats[i].Media = urls
		}
	}
	return cats, nil
}

// CategoryMedia returns the category media document narrowed by filter.
func (s *CatalogService) CategoryMedia(ctx context.Context, filter domain.CategoryMediaFilter) (*domain.CategoryMediaCollection, error) {
	coll, err := s.media.Collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category media: %w", err)
	}

	out := &domain.CategoryMediaCollection{
		Version:     coll.Version,
		Description: coll.Description,
		Media:       make([]domain.CategoryMedia, 0, len(coll.Media)),
	}
	for _, m := range coll.Media {
		if filter.Matches(m) {
			out.Media = append(out.Media, m)
		}
	}
	return out, nil
}

// LookupCategoryMedia returns the first entry for a dimension value.
func (s *CatalogService) LookupCategoryMedia(ctx context.Context, dimension, value string) (*domain.CategoryMedia, error) {
	coll, err := s.media.Collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category media: %w", err)
	}

	for _, m := range coll.Media {
		if m.Dimension == dimension && m.DimensionValue == value {
			found := m
			return &found, nil
		}
	}
	return nil, apperrors.NotFoundMessage(fmt.Sprintf(
		"No media found for dimension='%s' and dimensionValue='%s'", dimension, value))
}
