package catalog

import (
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/pkg/pagination"
)

// Query is the set of product predicates. Zero fields match everything.
type Query struct {
	// Search is a case-insensitive substring of name, id, sku or the
	// space-joined category labels.
	Search   string
	Category string
	Season   *int
	Cert     string
	PriceMin *float64
	PriceMax *float64
}

// Matches reports whether p passes every predicate of q.
func (q Query) Matches(p *domain.Product) bool {
	if q.Search != "" && !matchesSearch(p, strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != "" && !domain.Contains(p.Category, q.Category) {
		return false
	}
	if q.Season != nil && (p.Season == nil || *p.Season != *q.Season) {
		return false
	}
	if q.Cert != "" && !domain.Contains(p.Certifications, q.Cert) {
		return false
	}
	if q.PriceMin != nil || q.PriceMax != nil {
		price, ok := p.PriceValue()
		if !ok {
			return false
		}
		if q.PriceMin != nil && price < *q.PriceMin {
			return false
		}
		if q.PriceMax != nil && price > *q.PriceMax {
			return false
		}
	}
	return true
}

func matchesSearch(p *domain.Product, needle string) bool {
	haystack := []string{p.Name, p.ID, p.SKUValue(), strings.Join(p.Category, " ")}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Filter returns the products matching q, in input order.
func Filter(products []domain.Product, q Query) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if q.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// Paginate returns products[offset : offset+limit], clamped to the slice.
func Paginate(products []domain.Product, limit, offset int) []domain.Product {
	return pagination.Apply(products, pagination.Params{Limit: limit, Offset: offset})
}
