package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/gearcatalog/internal/domain"
	"github.com/utafrali/gearcatalog/internal/service"
	"github.com/utafrali/gearcatalog/pkg/httputil"
	"github.com/utafrali/gearcatalog/pkg/validator"
)

// CategoryHandler handles HTTP requests for categories and category media.
type CategoryHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(svc *service.CatalogService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, logger: logger}
}

type lookupCategoryMediaQuery struct {
	Dimension      string `query:"dimension" validate:"required"`
	DimensionValue string `query:"dimension_value" validate:"required"`
}

// ListCategories handles GET /v1/categories.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewListResponse(categories))
}

// ListCategoryMedia handles GET /v1/category-media.
func (h *CategoryHandler) ListCategoryMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	coll, err := h.service.CategoryMedia(r.Context(), domain.CategoryMediaFilter{
		Dimension:      q.Get("dimension"),
		DimensionValue: q.Get("dimension_value"),
		Role:           q.Get("role"),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, coll)
}

// LookupCategoryMedia handles GET /v1/category-media/lookup.
func (h *CategoryHandler) LookupCategoryMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := lookupCategoryMediaQuery{
		Dimension:      q.Get("dimension"),
		DimensionValue: q.Get("dimension_value"),
	}
	if err := validator.Validate(params); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	media, err := h.service.LookupCategoryMedia(r.Context(), params.Dimension, params.DimensionValue)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, media)
}
