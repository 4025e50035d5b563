package batch

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/pkg/slug"
)

// Columns read from shop CSV exports.
const (
	ColumnName       = "Product Name"
	ColumnPrice      = "Price"
	ColumnImageURL   = "Image URL"
	ColumnProductURL = "Product URL"
)

const (
	importBrand   = "O'Neal"
	importSlugLen = 30
)

var seasonRegexp = regexp.MustCompile(`20(\d{2})`)

// keywordCategories maps name fragments to coarse categories, checked in
// order. A name can land in several categories.
var keywordCategories = []struct {
	category string
	keywords []string
}{
	{"Helmets", []string{"helm", "helmet", "goggle", "brille"}},
	{"Gloves", []string{"handschuh", "glove"}},
	{"Clothing", []string{"jersey", "hose", "pants", "shorts", "shirt", "jacke", "jacket"}},
	{"Protectors", []string{"protektor", "protector", "knieschützer", "knieschutzer", "ellbogen", "elbow", "guard", "vest"}},
	{"Accessories", []string{"sock", "socke", "neckwarmer", "nackenwarmer", "sticker", "tent"}},
	{"Shoes", []string{"schuh", "shoe"}},
}

// CSVSource is one shop export and the product line it belongs to.
type CSVSource struct {
	Path string
	Type string
}

// ImportCSV builds the product list from shop CSV exports. The stored
// products are replaced.
type ImportCSV struct {
	sources []CSVSource
}

// NewImportCSV creates the import-csv job. Sources are imported in order.
func NewImportCSV(sources ...CSVSource) *ImportCSV {
	return &ImportCSV{sources: sources}
}

func (j *ImportCSV) Name() string { return "import-csv" }

func (j *ImportCSV) replacesCatalog() {}

func (j *ImportCSV) Run(ctx context.Context, _ []domain.Product) ([]domain.Product, *Report, error) {
	var products []domain.Product
	for _, src := range j.sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s csv: %w", src.Type, err)
		}
		imported, err := ReadProductsCSV(f, src.Type)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", src.Path, err)
		}
		products = append(products, imported...)
	}

	report := newReport(j.Name(), len(products))
	report.Items = len(products)
	report.Matched = len(products)
	for i := range products {
		report.markChanged(products[i].ID)
	}
	return products, report, nil
}

// ReadProductsCSV converts the rows of a shop export into products of the
// given line ("mtb", "mx"). Rows are numbered from 1.
func ReadProductsCSV(r io.Reader, productType string) ([]domain.Product, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var products []domain.Product
	for index := 1; ; index++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", index, err)
		}
		products = append(products, productFromRow(
			strings.TrimSpace(field(row, ColumnName)),
			field(row, ColumnPrice),
			strings.TrimSpace(field(row, ColumnImageURL)),
			strings.TrimSpace(field(row, ColumnProductURL)),
			productType,
			index,
		))
	}
	return products, nil
}

func productFromRow(name, rawPrice, imageURL, productURL, productType string, index int) domain.Product {
	id := fmt.Sprintf("%s-%04d-%s", productType, index, slug.Truncate(slug.Generate(name), importSlugLen))

	p := domain.Product{
		ID:       id,
		Name:     name,
		Brand:    importBrand,
		Category: append(categoriesFromName(name), strings.ToUpper(productType)),
		Season:   seasonFromName(name),
		Status:   domain.ProductStatusActive,
	}

	if value := parsePrice(rawPrice); value > 0 {
		p.Price = &domain.Price{
			Currency:  "EUR",
			Value:     value,
			Formatted: fmt.Sprintf("€%.2f", value),
		}
	}

	if imageURL != "" {
		p.Media = []domain.MediaItem{{
			ID:    id + "-hero",
			Role:  domain.MediaRoleHero,
			Src:   imageURL,
			Alt:   name + " - hero image",
			Extra: domain.Extra{"featured": json.RawMessage("true")},
		}}
	}

	if productURL != "" {
		p.Meta = map[string]any{
			"product_url":     productURL,
			domain.MetaSource: productType,
		}
	}
	return p
}

func categoriesFromName(name string) []string {
	lower := strings.ToLower(name)
	var out []string
	for _, kc := range keywordCategories {
		for _, kw := range kc.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, kc.category)
				break
			}
		}
	}
	if len(out) == 0 {
		out = append(out, "Other")
	}
	return out
}

func seasonFromName(name string) *int {
	m := seasonRegexp.FindStringSubmatch(name)
	if m == nil {
		return nil
	}
	yy, _ := strconv.Atoi(m[1])
	season := 2000 + yy
	return &season
}

// parsePrice reads prices like "9,99" or "€ 129,90". Unparsable input is 0.
func parsePrice(raw string) float64 {
	s := strings.ReplaceAll(raw, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
