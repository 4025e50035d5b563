package service

import (
	"slices"
	"strconv"
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
)

// FigmaFeed flattens products into the design tool feed shape.
func FigmaFeed(products []domain.Product) []domain.FigmaFeedItem {
	items := make([]domain.FigmaFeedItem, 0, len(products))
	for i := range products {
		items = append(items, figmaFeedItem(&products[i]))
	}
	return items
}

func figmaFeedItem(p *domain.Product) domain.FigmaFeedItem {
	item := domain.FigmaFeedItem{ID: p.ID, Name: ptr(p.Name)}

	if p.Price != nil {
		item.Price = ptr(FormatPrice(p.Price.Value, p.Price.Currency))
	}
	if hero, ok := p.HeroMedia(); ok {
		item.Image = ptr(hero.Src)
	}
	if len(p.Category) > 0 {
		item.Category = ptr(p.Category[0])
	}
	if p.Season != nil {
		item.Season = ptr(strconv.Itoa(*p.Season))
	}
	if len(p.Certifications) > 0 {
		certs := slices.Clone(p.Certifications)
		slices.Sort(certs)
		item.Cert = ptr(strings.Join(certs, " / "))
	}
	return item
}

func ptr[T any](v T) *T {
	return &v
}
