package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
)

const (
	listPageSize  = 100
	contextPrefix = "oneal_product_"
)

// ErrNoStorageObjects is returned when the storage listing is empty.
var ErrNoStorageObjects = errors.New("no storage objects found")

// ObjectLister pages through storage objects.
type ObjectLister interface {
	ListObjects(ctx context.Context, limit, offset int) (*storage.ObjectPage, error)
}

// PopulateStorageIDs links media items to existing storage objects.
type PopulateStorageIDs struct {
	lister   ObjectLister
	pageSize int
	logger   *slog.Logger
}

// NewPopulateStorageIDs creates the populate-storage-ids job.
func NewPopulateStorageIDs(lister ObjectLister, logger *slog.Logger) *PopulateStorageIDs {
	return &PopulateStorageIDs{lister: lister, pageSize: listPageSize, logger: logger}
}

func (j *PopulateStorageIDs) Name() string { return "populate-storage-ids" }

func (j *PopulateStorageIDs) Run(ctx context.Context, products []domain.Product) ([]domain.Product, *Report, error) {
	objects, err := j.listAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(objects) == 0 {
		return nil, nil, ErrNoStorageObjects
	}

	index := newObjectIndex(objects)
	report := newReport(j.Name(), len(products))

	for i := range products {
		p := &products[i]
		for k := range p.Media {
			m := &p.Media[k]
			report.Items++
			if m.HasStorageID() {
				report.Matched++
				continue
			}
			id, ok := index.match(p.ID, m)
			if !ok {
				m.StorageID = nil
				j.logger.DebugContext(ctx, "no storage object for media",
					slog.String("product_id", p.ID),
					slog.String("media_id", m.ID),
				)
				continue
			}
			m.StorageID = &id
			report.Matched++
			report.markChanged(p.ID)
		}
	}
	return products, report, nil
}

func (j *PopulateStorageIDs) listAll(ctx context.Context) ([]storage.Object, error) {
	var all []storage.Object
	for offset := 0; ; offset += j.pageSize {
		page, err := j.lister.ListObjects(ctx, j.pageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("list storage objects at offset %d: %w", offset, err)
		}
		if len(page.Items) == 0 {
			break
		}
		all = append(all, page.Items...)
		if len(all) >= page.Total || len(page.Items) < j.pageSize {
			break
		}
	}
	return all, nil
}

// objectIndex maps storage contexts and normalized external URIs to ids.
type objectIndex struct {
	byContext map[string]int64
	byURI     map[string]int64
}

func newObjectIndex(objects []storage.Object) *objectIndex {
	idx := &objectIndex{
		byContext: make(map[string]int64),
		byURI:     make(map[string]int64),
	}
	for _, o := range objects {
		if o.ID == 0 {
			continue
		}
		if o.Context != "" {
			idx.byContext[o.Context] = o.ID
			if productID, ok := strings.CutPrefix(o.Context, contextPrefix); ok {
				idx.byContext[productID] = o.ID
			}
		}
		if o.ExternalURI != "" {
			idx.byURI[normalizeURL(o.ExternalURI)] = o.ID
		}
	}
	return idx
}

// match tries, in order: the media id, the product id and the prefixed
// product id as storage context, then the media source URL.
func (idx *objectIndex) match(productID string, m *domain.MediaItem) (int64, bool) {
	for _, key := range []string{m.ID, productID, contextPrefix + productID} {
		if key == "" {
			continue
		}
		if id, ok := idx.byContext[key]; ok {
			return id, true
		}
	}
	if m.Src != "" {
		if id, ok := idx.byURI[normalizeURL(m.Src)]; ok {
			return id, true
		}
	}
	return 0, false
}

// normalizeURL drops query and fragment and lowercases the rest.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return strings.ToLower(u.Scheme + "://" + u.Host + u.Path)
}
