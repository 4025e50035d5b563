package domain

// DimensionPresentation is the category media dimension whose values are
// category names.
const DimensionPresentation = "category:presentation"

// Category media roles.
const (
	CategoryMediaRoleHero       = "hero"
	CategoryMediaRoleBackground = "background"
	CategoryMediaRoleThumbnail  = "thumbnail"
)

// CategoryMedia is a media asset attached to a category or another pivot
// dimension value.
type CategoryMedia struct {
	ID             string         `json:"id"`
	Dimension      string         `json:"dimension"`
	DimensionValue string         `json:"dimensionValue"`
	MediaType      string         `json:"mediaType"`
	StorageID      int64          `json:"storageId"`
	Role           string         `json:"role"`
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Priority       *int           `json:"priority"`
	Meta           map[string]any `json:"meta"`
}

// CategoryMediaCollection is the category media document.
type CategoryMediaCollection struct {
	Version     string          `json:"version"`
	Description *string         `json:"description"`
	Media       []CategoryMedia `json:"media"`
}

// CategoryMediaFilter narrows a category media collection. Empty fields match
// everything.
type CategoryMediaFilter struct {
	Dimension      string
	DimensionValue string
	Role           string
}

// Matches reports whether m passes the filter.
func (f CategoryMediaFilter) Matches(m CategoryMedia) bool {
	if f.Dimension != "" && m.Dimension != f.Dimension {
		return false
	}
	if f.DimensionValue != "" && m.DimensionValue != f.DimensionValue {
		return false
	}
	if f.Role != "" && m.Role != f.Role {
		return false
	}
	return true
}
