package domain

import "strings"

// Product status values.
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Media roles.
const (
	MediaRoleHero      = "hero"
	MediaRoleDetail    = "detail"
	MediaRoleLifestyle = "lifestyle"
)

// MetaSource is the product meta key naming the vocabulary its category
// labels come from, e.g. "mtb" or "mx".
const MetaSource = "source"

// Price is a product price.
type Price struct {
	Currency  string  `json:"currency"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted,omitempty"`
}

// MediaItem is one image or video attached to a product.
type MediaItem struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Src       string `json:"src"`
	Alt       string `json:"alt,omitempty"`
	StorageID *int64 `json:"storage_id,omitempty"`

	Extra Extra `json:"-"`
}

type mediaItemAlias MediaItem

// UnmarshalJSON implements json.Unmarshaler and keeps unknown members.
func (m *MediaItem) UnmarshalJSON(data []byte) error {
	var a mediaItemAlias
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	*m = MediaItem(a)
	m.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m MediaItem) MarshalJSON() ([]byte, error) {
	a := mediaItemAlias(m)
	return encodeWithExtra(&a, m.Extra)
}

// HasStorageID reports whether the item is linked to a storage object.
func (m MediaItem) HasStorageID() bool {
	return m.StorageID != nil && *m.StorageID != 0
}

// Datasheet is a downloadable product document.
type Datasheet struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
}

// Product is one catalog record. Members the catalog does not model are kept
// in Extra and written back unchanged.
type Product struct {
	ID             string         `json:"id"`
	SKU            *string        `json:"sku"`
	Name           string         `json:"name"`
	Brand          string         `json:"brand,omitempty"`
	Category       []string       `json:"category"`
	CategoryIDs    []string       `json:"category_ids,omitempty"`
	Season         *int           `json:"season"`
	Status         string         `json:"status,omitempty"`
	Certifications []string       `json:"certifications"`
	Materials      []string       `json:"materials"`
	Colors         []string       `json:"colors"`
	Sizes          []string       `json:"sizes"`
	Price          *Price         `json:"price"`
	Media          []MediaItem    `json:"media"`
	Datasheets     []Datasheet    `json:"datasheets"`
	Meta           map[string]any `json:"meta"`
	AITags         []string       `json:"ai_tags,omitempty"`
	AIAnalysis     *AIAnalysis    `json:"ai_analysis,omitempty"`

	Extra Extra `json:"-"`
}

type productAlias Product

// UnmarshalJSON implements json.Unmarshaler and keeps unknown members.
func (p *Product) UnmarshalJSON(data []byte) error {
	var a productAlias
	extra, err := decodeWithExtra(data, &a)
	if err != nil {
		return err
	}
	*p = Product(a)
	p.Extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Product) MarshalJSON() ([]byte, error) {
	a := productAlias(p)
	return encodeWithExtra(&a, p.Extra)
}

// Source returns the trimmed meta source hint, or "".
func (p *Product) Source() string {
	if p.Meta == nil {
		return ""
	}
	s, ok := p.Meta[MetaSource].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// SKUValue returns the SKU or "".
func (p *Product) SKUValue() string {
	if p.SKU == nil {
		return ""
	}
	return *p.SKU
}

// HasCategoryIDs reports whether category ids were already assigned.
func (p *Product) HasCategoryIDs() bool {
	return len(p.CategoryIDs) > 0
}

// HeroMedia returns the first media item with the hero role.
func (p *Product) HeroMedia() (MediaItem, bool) {
	for _, m := range p.Media {
		if m.Role == MediaRoleHero {
			return m, true
		}
	}
	return MediaItem{}, false
}

// PriceValue returns the price value and whether the product has a price.
func (p *Product) PriceValue() (float64, bool) {
	if p.Price == nil {
		return 0, false
	}
	return p.Price.Value, true
}

// Contains reports whether list holds s exactly.
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
