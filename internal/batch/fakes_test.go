package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
	pkgkafka "github.com/utafrali/gearcatalog/pkg/kafka"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func id64(v int64) *int64 {
	return &v
}

// memoryStore is an in-memory repository.ProductStore.
type memoryStore struct {
	products []domain.Product
	saves    int
	readErr  error
}

func (s *memoryStore) ReadAll(context.Context) ([]domain.Product, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return slices.Clone(s.products), nil
}

func (s *memoryStore) Save(_ context.Context, products []domain.Product) error {
	s.products = slices.Clone(products)
	s.saves++
	return nil
}

// fakeStorage serves canned objects and counts calls.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[int64]string
	failIDs   map[int64]bool
	fetches   map[int64]int
	pages     []storage.ObjectPage
	listErr   error
	nextID    atomic.Int64
	failLinks map[string]bool
	mediaSize int64
	mediaFail map[int64]bool
	mediaHits atomic.Int64
}

func (f *fakeStorage) GetObject(_ context.Context, id int64) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetches == nil {
		f.fetches = map[int64]int{}
	}
	f.fetches[id]++
	if f.failIDs[id] {
		return nil, errors.New("storage returned status 500")
	}
	raw, ok := f.objects[id]
	if !ok {
		return nil, fmt.Errorf("object %d not found", id)
	}
	return storage.ParseObject([]byte(raw))
}

func (f *fakeStorage) ListObjects(_ context.Context, limit, offset int) (*storage.ObjectPage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	i := offset / limit
	if i >= len(f.pages) {
		return &storage.ObjectPage{}, nil
	}
	page := f.pages[i]
	return &page, nil
}

func (f *fakeStorage) RegisterExternal(_ context.Context, obj storage.ExternalObject) (int64, error) {
	if f.failLinks[obj.Title] {
		return 0, errors.New("upload rejected")
	}
	return 1000 + f.nextID.Add(1), nil
}

func (f *fakeStorage) FetchMedia(_ context.Context, id int64, _ string) (int64, error) {
	f.mediaHits.Add(1)
	if f.mediaFail[id] {
		return 0, errors.New("timeout")
	}
	return f.mediaSize, nil
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	return m.Called(ctx, topic, event).Error(0)
}

func (m *mockPublisher) Close() error {
	return nil
}
