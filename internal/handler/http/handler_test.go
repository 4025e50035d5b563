package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/repository/jsonfile"
	"github.com/utafrali/gearcatalog/internal/service"
	"github.com/utafrali/gearcatalog/internal/storage"
	"github.com/utafrali/gearcatalog/internal/taxonomy"
	"github.com/utafrali/gearcatalog/pkg/health"
	"github.com/utafrali/gearcatalog/pkg/httputil"
	"github.com/utafrali/gearcatalog/pkg/middleware"
)

const testAPIKey = "test-key"

var (
	taxonomyJSON = dedent.Dedent(`
		{"taxonomy": [
		  {"label": "Mountainbike", "url": "/collections/mountainbike", "children": [
		    {"label": "Helme", "url": "/collections/mtb-helme"}
		  ]}
		]}
	`)

	productsJSON = dedent.Dedent(`
		[
		  {"id": "mtb-0001-pike", "name": "Pike Helmet", "category": ["Mountainbike", "Helme"],
		   "category_ids": ["cat:mountainbike", "cat:mountainbike/mtb-helme"], "season": 2025,
		   "certifications": ["EN 1078"], "price": {"currency": "EUR", "value": 399},
		   "media": [
		     {"id": "m1", "role": "hero", "src": "https://cdn.test/pike.jpg", "storage_id": 11},
		     {"id": "m2", "role": "lifestyle", "src": "https://cdn.test/pike-trail.jpg"}
		   ]},
		  {"id": "mx-0002-element", "name": "element Jersey", "category": ["Motocross"],
		   "category_ids": ["cat:motocross"], "season": 2024,
		   "price": {"currency": "EUR", "value": 49.5}, "media": []},
		  {"id": "mx-0003-sticker", "name": "Sticker", "category": ["Motocross"],
		   "category_ids": ["cat:motocross"], "media": []}
		]
	`)

	categoryMediaJSON = dedent.Dedent(`
		{
		  "version": "1.0",
		  "media": [
		    {"id": "cm1", "dimension": "category:presentation", "dimensionValue": "Helme",
		     "mediaType": "image", "storageId": 4711, "role": "hero"},
		    {"id": "cm2", "dimension": "category:presentation", "dimensionValue": "Helme",
		     "mediaType": "image", "storageId": 4712, "role": "background"}
		  ]
		}
	`)
)

// --- Stub variant lookup ---

type stubLookup struct {
	assets map[string]storage.Asset
	err    error
	calls  int
}

func (s *stubLookup) MediaURL(id int64, params string) string {
	return fmt.Sprintf("https://storage.test/storage/media/%d%s", id, params)
}

func (s *stubLookup) BatchVariants(_ context.Context, _ []storage.VariantQuery) (map[string]storage.Asset, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.assets, nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestRouter(t *testing.T, lookup *stubLookup) http.Handler {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "kategorien.json", taxonomyJSON)
	writeFile(t, dir, "products.json", productsJSON)
	writeFile(t, dir, "category-media.json", categoryMediaJSON)

	logger := discardLogger()
	opts := jsonfile.Options{}
	taxonomies := jsonfile.NewTaxonomyRepository(filepath.Join(dir, "kategorien.json"), opts)
	products := jsonfile.NewProductRepository(filepath.Join(dir, "products.json"), opts,
		taxonomy.NewNormalizer(taxonomy.DefaultRules()), taxonomies, logger)
	media := jsonfile.NewCategoryMediaRepository(filepath.Join(dir, "category-media.json"), opts)

	catalogService := service.NewCatalogService(products, taxonomies, media, lookup, logger)
	resolver := service.NewMediaResolver(lookup, logger)

	return NewRouter(catalogService, resolver, health.NewHandler(apiVersion), RouterConfig{
		APIKey:  testAPIKey,
		Metrics: middleware.NewHTTPMetrics(prometheus.NewRegistry(), "catalog-test"),
	}, logger)
}

func doGet(t *testing.T, h http.Handler, target string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authed {
		req.Header.Set(middleware.APIKeyHeader, testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type productList struct {
	Count   int              `json:"count"`
	Results []domain.Product `json:"results"`
}

func resultIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// --- Auth and ping ---

func TestPing(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/ping", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[pingResponse](t, rec)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.0", body.Version)
	assert.True(t, strings.HasSuffix(body.Time, "Z"), body.Time)
}

func TestProtectedRoutes_RequireAPIKey(t *testing.T) {
	router := newTestRouter(t, &stubLookup{})

	for _, target := range []string{"/v1/ping", "/v1/products", "/v1/products/x", "/v1/facets", "/v1/category-media"} {
		rec := doGet(t, router, target, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)

		body := decode[httputil.Response](t, rec)
		require.NotNil(t, body.Error, target)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
	}
}

func TestProtectedRoutes_WrongAPIKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set(middleware.APIKeyHeader, "nope")
	rec := httptest.NewRecorder()

	newTestRouter(t, &stubLookup{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthLive(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/health/live", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// --- Products ---

func TestListProducts_Default(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/products", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[productList](t, rec)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, []string{"mtb-0001-pike", "mx-0002-element", "mx-0003-sticker"}, resultIDs(body.Results))
}

func TestListProducts_FilterSortPaginate(t *testing.T) {
	router := newTestRouter(t, &stubLookup{})

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantIDs   []string
	}{
		{"category", "category=Motocross", 2, []string{"mx-0002-element", "mx-0003-sticker"}},
		{"search matches id", "search=PIKE", 1, []string{"mtb-0001-pike"}},
		{"season", "season=2024", 1, []string{"mx-0002-element"}},
		{"cert", "cert=EN%201078", 1, []string{"mtb-0001-pike"}},
		{"price range", "price_min=40&price_max=100", 1, []string{"mx-0002-element"}},
		{"price asc puts missing last", "sort=price", 3, []string{"mx-0002-element", "mtb-0001-pike", "mx-0003-sticker"}},
		{"name desc ignores case", "sort=name&order=desc", 3, []string{"mx-0003-sticker", "mtb-0001-pike", "mx-0002-element"}},
		{"count is pre-pagination", "limit=1&offset=1", 3, []string{"mx-0002-element"}},
		{"offset past end", "offset=10", 3, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, router, "/v1/products?"+tt.query, true)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			body := decode[productList](t, rec)
			assert.Equal(t, tt.wantCount, body.Count)
			assert.Equal(t, tt.wantIDs, resultIDs(body.Results))
		})
	}
}

func TestListProducts_InvalidParameters(t *testing.T) {
	router := newTestRouter(t, &stubLookup{})

	tests := []struct {
		query     string
		wantCode  string
		wantField string
	}{
		{"limit=0", "VALIDATION_ERROR", "limit"},
		{"limit=201", "VALIDATION_ERROR", "limit"},
		{"offset=-1", "VALIDATION_ERROR", "offset"},
		{"sort=color", "VALIDATION_ERROR", "sort"},
		{"order=sideways", "VALIDATION_ERROR", "order"},
		{"limit=abc", "INVALID_PARAMETER", ""},
		{"season=new", "INVALID_PARAMETER", ""},
		{"price_min=cheap", "INVALID_PARAMETER", ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := doGet(t, router, "/v1/products?"+tt.query, true)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[httputil.Response](t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			if tt.wantField != "" {
				assert.Contains(t, body.Error.Fields, tt.wantField)
			}
		})
	}
}

func TestListProducts_Resolved(t *testing.T) {
	lookup := &stubLookup{assets: map[string]storage.Asset{
		"m1": {ID: 11, Type: "image", Variants: &domain.ImageVariants{
			Thumb: "https://storage.test/t/11", Preview: "https://storage.test/p/11", Print: "https://storage.test/o/11",
		}},
	}}
	rec := doGet(t, newTestRouter(t, lookup), "/v1/products?format=resolved&limit=2", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[resolvedListResponse](t, rec)
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, 2, body.Limit)
	assert.Equal(t, 0, body.Offset)
	require.Len(t, body.Results, 2)
	assert.Equal(t, 1, lookup.calls, "one batch call per page")

	pike := body.Results[0]
	require.NotNil(t, pike.Media.Hero)
	assert.Equal(t, "https://storage.test/t/11", pike.Media.Hero.Variants.Thumb)
	require.Len(t, pike.Media.Lifestyle, 1)
	assert.Equal(t, "https://cdn.test/pike-trail.jpg", pike.Media.Lifestyle[0].Variants.Print)
	require.NotNil(t, pike.Price)
	assert.Equal(t, "€399", pike.Price.Formatted)
	assert.NotNil(t, pike.Layout)
}

func TestListProducts_ResolvedFallsBackWhenStorageFails(t *testing.T) {
	lookup := &stubLookup{err: errors.New("connection refused")}
	rec := doGet(t, newTestRouter(t, lookup), "/v1/products?format=resolved&search=pike", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[resolvedListResponse](t, rec)
	require.Len(t, body.Results, 1)
	hero := body.Results[0].Media.Hero
	require.NotNil(t, hero)
	assert.Equal(t, "https://storage.test/storage/media/11"+storage.ThumbParams, hero.Variants.Thumb)
	assert.Equal(t, "https://storage.test/storage/media/11", hero.Variants.Print)
}

func TestListProducts_FigmaFeed(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/products?format=figma-feed&category=Motocross", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[listResponse[domain.FigmaFeedItem]](t, rec)
	assert.Equal(t, 2, body.Count)
	require.Len(t, body.Results, 2)
	require.NotNil(t, body.Results[0].Price)
	assert.Equal(t, "€49.5", *body.Results[0].Price)
	require.NotNil(t, body.Results[0].Season)
	assert.Equal(t, "2024", *body.Results[0].Season)
}

func TestGetProduct(t *testing.T) {
	router := newTestRouter(t, &stubLookup{})

	rec := doGet(t, router, "/v1/products/mx-0002-element", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "element Jersey", decode[domain.Product](t, rec).Name)

	rec = doGet(t, router, "/v1/products/unknown", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[httputil.Response](t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestFacets(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/facets", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Category      []string `json:"category"`
		Season        []int    `json:"season"`
		Certification []string `json:"certification"`
		PriceRange    struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"priceRange"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"Helme", "Motocross", "Mountainbike"}, body.Category)
	assert.Equal(t, []int{2024, 2025}, body.Season)
	assert.Equal(t, []string{"EN 1078"}, body.Certification)
	assert.InDelta(t, 49.5, body.PriceRange.Min, 0.001)
	assert.InDelta(t, 399, body.PriceRange.Max, 0.001)
}

// --- Categories ---

func TestListCategories_IsPublic(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/categories", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	body := decode[httputil.ListResponse[domain.Category]](t, rec)
	require.Equal(t, 2, body.Count)

	root, helme := body.Results[0], body.Results[1]
	assert.Equal(t, "cat:mountainbike", root.ID)
	assert.Nil(t, root.ParentID)
	assert.Empty(t, root.Media)

	assert.Equal(t, "cat:mountainbike/mtb-helme", helme.ID)
	require.NotNil(t, helme.ParentID)
	assert.Equal(t, "cat:mountainbike", *helme.ParentID)
	assert.Equal(t, []string{
		"https://storage.test/storage/media/4711",
		"https://storage.test/storage/media/4712",
	}, helme.Media)
}

func TestListCategoryMedia_Filters(t *testing.T) {
	rec := doGet(t, newTestRouter(t, &stubLookup{}), "/v1/category-media?dimension_value=Helme&role=background", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[domain.CategoryMediaCollection](t, rec)
	assert.Equal(t, "1.0", body.Version)
	require.Len(t, body.Media, 1)
	assert.Equal(t, "cm2", body.Media[0].ID)
}

func TestLookupCategoryMedia(t *testing.T) {
	router := newTestRouter(t, &stubLookup{})

	rec := doGet(t, router, "/v1/category-media/lookup?dimension=category:presentation&dimension_value=Helme", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cm1", decode[domain.CategoryMedia](t, rec).ID)

	rec = doGet(t, router, "/v1/category-media/lookup?dimension=category:presentation&dimension_value=Brillen", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[httputil.Response](t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Message, "dimensionValue='Brillen'")

	rec = doGet(t, router, "/v1/category-media/lookup?dimension=category:presentation", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decode[httputil.Response](t, rec)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Fields, "dimension_value")
}
