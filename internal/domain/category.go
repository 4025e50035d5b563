package domain

// Category is a flattened taxonomy node as served by the categories endpoint.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	URL      *string  `json:"url"`
	ParentID *string  `json:"parent_id"`
	Media    []string `json:"media"`
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}
