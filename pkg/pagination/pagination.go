package pagination

// Limits of the limit/offset window accepted by list endpoints.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Params is a limit/offset window.
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Apply returns the window items[offset : offset+limit], clamped to the
// slice bounds. An offset past the end yields an empty slice.
func Apply[T any](items []T, p Params) []T {
	if p.Offset >= len(items) || p.Limit <= 0 {
		return []T{}
	}
	start := max(p.Offset, 0)
	end := min(start+p.Limit, len(items))
	return items[start:end]
}
