package taxonomy

import "github.com/utafrali/gearcatalog/internal/domain"

// Enricher attaches canonical labels and category ids to products.
type Enricher struct {
	normalizer *Normalizer
	resolver   *Resolver
}

// NewEnricher creates an Enricher.
func NewEnricher(normalizer *Normalizer, resolver *Resolver) *Enricher {
	return &Enricher{normalizer: normalizer, resolver: resolver}
}

// Enrich normalizes and resolves p's categories. Products without labels or
// with category ids already set are skipped. Category and CategoryIDs are
// only replaced when at least one id resolved; otherwise p is untouched.
func (e *Enricher) Enrich(p *domain.Product) bool {
	if len(p.Category) == 0 || p.HasCategoryIDs() {
		return false
	}

	labels := e.normalizer.Normalize(p.Category, p.Source())
	ids := e.resolver.Resolve(labels)
	if len(ids) == 0 {
		return false
	}

	p.Category = labels
	p.CategoryIDs = ids
	return true
}

// EnrichAll enriches every product in place and returns how many changed.
func (e *Enricher) EnrichAll(products []domain.Product) int {
	changed := 0
	for i := range products {
		if e.Enrich(&products[i]) {
			changed++
		}
	}
	return changed
}
