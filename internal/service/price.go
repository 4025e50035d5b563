package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/gearcatalog/internal/domain"
)

const defaultCurrency = "EUR"

// FormatPrice renders a price for display: "€399" for whole euro amounts,
// "€399.5" otherwise. An empty currency is EUR; other currencies are prefixed
// with their code.
func FormatPrice(value float64, currency string) string {
	if currency == "" {
		currency = defaultCurrency
	}
	symbol := currency
	if strings.EqualFold(currency, defaultCurrency) {
		symbol = "€"
	}
	return symbol + decimal.NewFromFloat(value).String()
}

func resolvePrice(p *domain.Price) *domain.PriceResolved {
	if p == nil {
		return nil
	}
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	formatted := p.Formatted
	if formatted == "" {
		formatted = FormatPrice(p.Value, currency)
	}
	return &domain.PriceResolved{
		Value:     p.Value,
		Currency:  currency,
		Formatted: formatted,
	}
}
