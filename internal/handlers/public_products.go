package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/the-dna-lab/catalog-api/internal/platform/httpx"
	"github.com/the-dna-lab/catalog-api/internal/services"
)

// PublicProductHandlers exposes the storefront read endpoints.
type PublicProductHandlers struct {
	catalog services.PublicCatalogService
	baseURL string
}

// NewPublicProductHandlers constructs the public product handler set.
// baseURL is prepended to relative media paths in responses.
func NewPublicProductHandlers(catalog services.PublicCatalogService, baseURL string) *PublicProductHandlers {
	return &PublicProductHandlers{
		catalog: catalog,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Routes registers the product endpoints beneath /public.
func (h *PublicProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/products/{idOrSlug}", h.get)
}

func (h *PublicProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		writeServiceUnavailable(ctx, w, "catalog")
		return
	}

	idOrSlug := strings.TrimSpace(chi.URLParam(r, "idOrSlug"))
	if idOrSlug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product identifier is required", http.StatusBadRequest))
		return
	}

	shape, err := h.catalog.GetByIDOrSlug(ctx, idOrSlug, h.baseURL)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, shape)
}
