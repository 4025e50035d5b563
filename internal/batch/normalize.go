package batch

import (
	"context"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
)

// NormalizeCategories persists the category enrichment the API applies on
// read.
type NormalizeCategories struct {
	enricher *taxonomy.Enricher
}

// NewNormalizeCategories creates the normalize-categories job.
func NewNormalizeCategories(enricher *taxonomy.Enricher) *NormalizeCategories {
	return &NormalizeCategories{enricher: enricher}
}

func (j *NormalizeCategories) Name() string { return "normalize-categories" }

func (j *NormalizeCategories) Run(_ context.Context, products []domain.Product) ([]domain.Product, *Report, error) {
	report := newReport(j.Name(), len(products))
	for i := range products {
		report.Items++
		if j.enricher.Enrich(&products[i]) {
			report.Matched++
			report.markChanged(products[i].ID)
		}
	}
	return products, report, nil
}
