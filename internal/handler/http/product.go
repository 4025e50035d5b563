package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/gearcatalog/internal/catalog"
	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/service"
	"github.com/utafrali/gearcatalog/pkg/httputil"
	"github.com/utafrali/gearcatalog/pkg/pagination"
	"github.com/utafrali/gearcatalog/pkg/validator"
)

// Output formats of the product listing.
const (
	formatResolved  = "resolved"
	formatFigmaFeed = "figma-feed"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service  *service.CatalogService
	resolver *service.MediaResolver
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, resolver *service.MediaResolver, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		resolver: resolver,
		logger:   logger,
	}
}

// listProductsQuery holds the validated query string of GET /v1/products.
type listProductsQuery struct {
	Sort   string `query:"sort" validate:"omitempty,oneof=name price season"`
	Order  string `query:"order" validate:"oneof=asc desc"`
	Limit  int    `query:"limit" validate:"min=1,max=200"`
	Offset int    `query:"offset" validate:"gte=0"`
}

// resolvedListResponse is the format=resolved envelope, which echoes the
// page window.
type resolvedListResponse struct {
	Count   int                      `json:"count"`
	Limit   int                      `json:"limit"`
	Offset  int                      `json:"offset"`
	Results []domain.ProductResolved `json:"results"`
}

// listResponse keeps the total match count, not the page length.
type listResponse[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// --- Handlers ---

// ListProducts handles GET /v1/products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, ok := httputil.QueryInt(w, r, "limit", pagination.DefaultLimit)
	if !ok {
		return
	}
	offset, ok := httputil.QueryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	season, ok := httputil.QueryOptionalInt(w, r, "season")
	if !ok {
		return
	}
	priceMin, ok := httputil.QueryFloat(w, r, "price_min")
	if !ok {
		return
	}
	priceMax, ok := httputil.QueryFloat(w, r, "price_max")
	if !ok {
		return
	}

	params := listProductsQuery{
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
		Limit:  limit,
		Offset: offset,
	}
	if params.Order == "" {
		params.Order = string(catalog.OrderAsc)
	}
	if err := validator.Validate(params); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	page, err := h.service.ListProducts(r.Context(), service.ListProductsInput{
		Query: catalog.Query{
			Search:   q.Get("search"),
			Category: q.Get("category"),
			Season:   season,
			Cert:     q.Get("cert"),
			PriceMin: priceMin,
			PriceMax: priceMax,
		},
		Sort:   catalog.SortKey(params.Sort),
		Order:  catalog.Order(params.Order),
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	switch q.Get("format") {
	case formatResolved:
		httputil.WriteJSON(w, http.StatusOK, resolvedListResponse{
			Count:   page.Count,
			Limit:   params.Limit,
			Offset:  params.Offset,
			Results: h.resolver.Resolve(r.Context(), page.Products),
		})
	case formatFigmaFeed:
		httputil.WriteJSON(w, http.StatusOK, listResponse[domain.FigmaFeedItem]{
			Count:   page.Count,
			Results: service.FigmaFeed(page.Products),
		})
	default:
		results := page.Products
		if results == nil {
			results = []domain.Product{}
		}
		httputil.WriteJSON(w, http.StatusOK, listResponse[domain.Product]{
			Count:   page.Count,
			Results: results,
		})
	}
}

// GetProduct handles GET /v1/products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Facets handles GET /v1/facets.
func (h *ProductHandler) Facets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.service.Facets(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, facets)
}
