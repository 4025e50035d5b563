package catalog

import (
	"math"
	"sort"
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
)

// SortKey names a product sort key.
type SortKey string

// Sort keys.
const (
	SortNone   SortKey = ""
	SortName   SortKey = "name"
	SortPrice  SortKey = "price"
	SortSeason SortKey = "season"
)

// Order is a sort direction.
type Order string

// Sort orders.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sort orders products in place by key. The sort is stable in both
// directions: products with equal keys keep their relative order. Names
// compare case-insensitively, a missing season sorts as -1 and a missing
// price sorts after every real price.
func Sort(products []domain.Product, key SortKey, order Order) {
	var less func(a, b *domain.Product) bool
	switch key {
	case SortName:
		less = func(a, b *domain.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortSeason:
		less = func(a, b *domain.Product) bool {
			return seasonKey(a) < seasonKey(b)
		}
	case SortPrice:
		less = func(a, b *domain.Product) bool {
			return priceKey(a) < priceKey(b)
		}
	default:
		return
	}

	if order == OrderDesc {
		asc := less
		less = func(a, b *domain.Product) bool { return asc(b, a) }
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}

// seasonKey treats a zero season like a missing one.
func seasonKey(p *domain.Product) int {
	if p.Season == nil || *p.Season == 0 {
		return -1
	}
	return *p.Season
}

func priceKey(p *domain.Product) float64 {
	if v, ok := p.PriceValue(); ok {
		return v
	}
	return math.Inf(1)
}
