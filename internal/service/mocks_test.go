package service

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
)

// --- Mock Repositories ---

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type mockTaxonomyRepository struct {
	mock.Mock
}

func (m *mockTaxonomyRepository) Forest(ctx context.Context) (taxonomy.Forest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(taxonomy.Forest), args.Error(1)
}

func (m *mockTaxonomyRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

type mockCategoryMediaRepository struct {
	mock.Mock
}

func (m *mockCategoryMediaRepository) Collection(ctx context.Context) (*domain.CategoryMediaCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryMediaCollection), args.Error(1)
}

// --- Mock Variant Lookup ---

type mockVariantLookup struct {
	mock.Mock
}

func (m *mockVariantLookup) BatchVariants(ctx context.Context, queries []storage.VariantQuery) (map[string]storage.Asset, error) {
	args := m.Called(ctx, queries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]storage.Asset), args.Error(1)
}

func (m *mockVariantLookup) MediaURL(id int64, params string) string {
	return "https://storage.test/storage/media/" + strconv.FormatInt(id, 10) + params
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func strPtr(s string) *string {
	return &s
}
