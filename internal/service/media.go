package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/storage"
)

const (
	defaultBrand     = "O'Neal"
	defaultMediaType = "image"
)

// VariantLookup resolves media link ids to storage assets.
type VariantLookup interface {
	MediaURLBuilder
	BatchVariants(ctx context.Context, queries []storage.VariantQuery) (map[string]storage.Asset, error)
}

// MediaResolver turns product media references into delivery URLs.
type MediaResolver struct {
	lookup VariantLookup
	logger *slog.Logger
}

// NewMediaResolver creates a media resolver backed by lookup.
func NewMediaResolver(lookup VariantLookup, logger *slog.Logger) *MediaResolver {
	return &MediaResolver{lookup: lookup, logger: logger}
}

// Resolve converts one page of products. All media of the page is looked up
// in a single batch call. If that call fails every item falls back to URLs
// derived from its storage id or its source URL; the failure is only logged.
func (r *MediaResolver) Resolve(ctx context.Context, products []domain.Product) []domain.ProductResolved {
	var queries []storage.VariantQuery
	for i := range products {
		for _, m := range products[i].Media {
			queries = append(queries, storage.VariantQuery{LinkID: m.ID, Role: m.Role})
		}
	}

	var assets map[string]storage.Asset
	if len(queries) > 0 {
		var err error
		assets, err = r.lookup.BatchVariants(ctx, queries)
		if err != nil {
			r.logger.WarnContext(ctx, "media variant lookup failed, using fallback urls",
				slog.Int("queries", len(queries)),
				slog.String("error", err.Error()),
			)
			assets = nil
		}
	}

	out := make([]domain.ProductResolved, 0, len(products))
	for i := range products {
		out = append(out, r.resolveProduct(&products[i], assets))
	}
	return out
}

func (r *MediaResolver) resolveProduct(p *domain.Product, assets map[string]storage.Asset) domain.ProductResolved {
	brand := p.Brand
	if brand == "" {
		brand = defaultBrand
	}
	status := p.Status
	if status == "" {
		status = domain.ProductStatusActive
	}

	resolved := domain.ProductResolved{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Brand:          brand,
		Category:       p.Category,
		CategoryIDs:    p.CategoryIDs,
		Season:         p.Season,
		Status:         status,
		Certifications: p.Certifications,
		Materials:      p.Materials,
		Colors:         p.Colors,
		Sizes:          p.Sizes,
		Price:          resolvePrice(p.Price),
		Datasheets:     p.Datasheets,
		Layout:         domain.DefaultLayoutHints(),
		Meta:           p.Meta,
		AITags:         p.AITags,
		AIAnalysis:     p.AIAnalysis,
		Media: domain.MediaCollection{
			Detail:    []domain.MediaAsset{},
			Lifestyle: []domain.MediaAsset{},
		},
	}

	for _, m := range p.Media {
		asset := r.resolveItem(m, assets)
		switch {
		case m.Role == domain.MediaRoleHero && resolved.Media.Hero == nil:
			resolved.Media.Hero = &asset
		case m.Role == domain.MediaRoleLifestyle:
			resolved.Media.Lifestyle = append(resolved.Media.Lifestyle, asset)
		default:
			resolved.Media.Detail = append(resolved.Media.Detail, asset)
		}
	}
	return resolved
}

func (r *MediaResolver) resolveItem(m domain.MediaItem, assets map[string]storage.Asset) domain.MediaAsset {
	out := domain.MediaAsset{
		LinkID: m.ID,
		Role:   m.Role,
		Type:   defaultMediaType,
		Alt:    m.Alt,
	}

	if a, ok := assets[m.ID]; ok {
		if a.Type != "" {
			out.Type = a.Type
		}
		out.Width = a.Width
		out.Height = a.Height
		out.AspectRatio = a.AspectRatio
		out.Variants = a.Variants
		out.Video = a.Video
		out.OriginalFilename = a.OriginalFilename
		out.MimeType = a.MimeType
		out.FileSizeBytes = a.FileSizeBytes
		if out.Variants == nil && out.Video == nil {
			out.Variants = r.storageVariants(a.ID)
		}
		return out
	}

	out.Variants = r.fallbackVariants(m)
	return out
}

// fallbackVariants derives URLs without asking the storage service.
func (r *MediaResolver) fallbackVariants(m domain.MediaItem) *domain.ImageVariants {
	if m.HasStorageID() {
		return r.storageVariants(*m.StorageID)
	}
	return &domain.ImageVariants{Thumb: m.Src, Preview: m.Src, Print: m.Src}
}

func (r *MediaResolver) storageVariants(id int64) *domain.ImageVariants {
	return &domain.ImageVariants{
		Thumb:   r.lookup.MediaURL(id, storage.ThumbParams),
		Preview: r.lookup.MediaURL(id, storage.PreviewParams),
		Print:   r.lookup.MediaURL(id, ""),
	}
}
