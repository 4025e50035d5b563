package catalog

import (
	"sort"

	"github.com/utafrali/gearcatalog/internal/domain"
)

// PriceRange is the span of product prices. Both ends are 0 when no product
// has a price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Facets lists the distinct filter values present in a product set.
type Facets struct {
	Category      []string   `json:"category"`
	Season        []int      `json:"season"`
	Certification []string   `json:"certification"`
	PriceRange    PriceRange `json:"priceRange"`
}

// BuildFacets collects sorted distinct categories, seasons and certifications
// and the price range of products.
func BuildFacets(products []domain.Product) Facets {
	categories := map[string]struct{}{}
	seasons := map[int]struct{}{}
	certs := map[string]struct{}{}
	var (
		minPrice, maxPrice float64
		priced             bool
	)

	for i := range products {
		p := &products[i]
		for _, c := range p.Category {
			categories[c] = struct{}{}
		}
		if p.Season != nil {
			seasons[*p.Season] = struct{}{}
		}
		for _, c := range p.Certifications {
			certs[c] = struct{}{}
		}
		if v, ok := p.PriceValue(); ok {
			if !priced || v < minPrice {
				minPrice = v
			}
			if !priced || v > maxPrice {
				maxPrice = v
			}
			priced = true
		}
	}

	seasonList := make([]int, 0, len(seasons))
	for s := range seasons {
		seasonList = append(seasonList, s)
	}
	sort.Ints(seasonList)

	return Facets{
		Category:      sortedKeys(categories),
		Season:        seasonList,
		Certification: sortedKeys(certs),
		PriceRange:    PriceRange{Min: minPrice, Max: maxPrice},
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
