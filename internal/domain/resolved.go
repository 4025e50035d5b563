package domain

// ImageVariants are the delivery URLs of an image.
type ImageVariants struct {
	Thumb   string `json:"thumb,omitempty"`
	Preview string `json:"preview,omitempty"`
	Print   string `json:"print,omitempty"`
}

// VideoVariants are the delivery URLs of a video.
type VideoVariants struct {
	HLS           string `json:"hls,omitempty"`
	PosterThumb   string `json:"posterThumb,omitempty"`
	PosterPreview string `json:"posterPreview,omitempty"`
	Print         string `json:"print,omitempty"`
}

// MediaAsset is a media item with resolved variant URLs.
type MediaAsset struct {
	LinkID           string         `json:"link_id"`
	Role             string         `json:"role"`
	Type             string         `json:"type"`
	Alt              string         `json:"alt,omitempty"`
	Width            *int           `json:"width,omitempty"`
	Height           *int           `json:"height,omitempty"`
	AspectRatio      *float64       `json:"aspectRatio,omitempty"`
	Variants         *ImageVariants `json:"variants,omitempty"`
	Video            *VideoVariants `json:"video,omitempty"`
	OriginalFilename string         `json:"original_filename,omitempty"`
	MimeType         string         `json:"mime_type,omitempty"`
	FileSizeBytes    *int64         `json:"file_size_bytes,omitempty"`
}

// MediaCollection groups resolved media by role.
type MediaCollection struct {
	Hero      *MediaAsset  `json:"hero"`
	Detail    []MediaAsset `json:"detail"`
	Lifestyle []MediaAsset `json:"lifestyle"`
}

// PriceResolved is a price with a display string.
type PriceResolved struct {
	Value     float64 `json:"value"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// Length is a print measure in millimetres.
type Length struct {
	MM float64 `json:"mm"`
}

// LayoutHints steer print templates.
type LayoutHints struct {
	RecommendedTemplate string  `json:"recommendedTemplate"`
	Bleed               Length  `json:"bleed"`
	DPI                 int     `json:"dpi"`
	SafeArea            *Length `json:"safeArea,omitempty"`
}

// DefaultLayoutHints returns the hints attached to every resolved product.
func DefaultLayoutHints() *LayoutHints {
	return &LayoutHints{
		RecommendedTemplate: "card-a4-portrait",
		Bleed:               Length{MM: 3},
		DPI:                 300,
		SafeArea:            &Length{MM: 5},
	}
}

// ProductResolved is a product whose media references were turned into
// concrete variant URLs.
type ProductResolved struct {
	ID             string          `json:"id"`
	SKU            *string         `json:"sku"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand,omitempty"`
	Category       []string        `json:"category"`
	CategoryIDs    []string        `json:"category_ids,omitempty"`
	Season         *int            `json:"season"`
	Status         string          `json:"status,omitempty"`
	Certifications []string        `json:"certifications"`
	Materials      []string        `json:"materials"`
	Colors         []string        `json:"colors"`
	Sizes          []string        `json:"sizes"`
	Price          *PriceResolved  `json:"price"`
	Media          MediaCollection `json:"media"`
	Datasheets     []Datasheet     `json:"datasheets"`
	Layout         *LayoutHints    `json:"layout"`
	Meta           map[string]any  `json:"meta"`
	AITags         []string        `json:"ai_tags,omitempty"`
	AIAnalysis     *AIAnalysis     `json:"ai_analysis,omitempty"`
}

// FigmaFeedItem is the flat product shape consumed by design tooling.
type FigmaFeedItem struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Price    *string `json:"price"`
	Image    *string `json:"image"`
	Category *string `json:"category"`
	Season   *string `json:"season"`
	Cert     *string `json:"cert"`
}
