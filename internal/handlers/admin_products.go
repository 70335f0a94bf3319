package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/platform/httpx"
	"github.com/the-dna-lab/catalog-api/internal/platform/pagination"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
	"github.com/the-dna-lab/catalog-api/internal/services"
)

const maxProductRequestBody = 1 << 20

// AdminProductHandlers exposes the back-office product endpoints.
type AdminProductHandlers struct {
	products services.ProductService
	labels   services.LabelService
	backfill services.BackfillService
}

// NewAdminProductHandlers constructs the admin product handler set.
func NewAdminProductHandlers(products services.ProductService, labels services.LabelService, backfill services.BackfillService) *AdminProductHandlers {
	return &AdminProductHandlers{
		products: products,
		labels:   labels,
		backfill: backfill,
	}
}

// Routes registers the product endpoints beneath /admin.
func (h *AdminProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}

	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Post("/products:backfill-codes", h.runBackfill)
	r.Get("/products/{productID}", h.get)
	r.Put("/products/{productID}", h.update)
	r.Patch("/products/{productID}", h.update)
	r.Delete("/products/{productID}", h.delete)
	r.Post("/products/{productID}:publish", h.publish)
	r.Post("/products/{productID}:unpublish", h.unpublish)
	r.Post("/products/{productID}:duplicate", h.duplicate)
	r.Get("/products/{productID}/labels", h.labelSheet)
}

func (h *AdminProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		writeServiceUnavailable(ctx, w, "product")
		return
	}

	payload, ok := decodeProductPayload(ctx, w, r)
	if !ok {
		return
	}

	record, err := h.products.Create(ctx, payload)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, productResponse(record))
}

func (h *AdminProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		writeServiceUnavailable(ctx, w, "product")
		return
	}

	params, err := pagination.FromRequest(r, pagination.Options{
		DefaultPageSize: pagination.DefaultPageSize,
		MaxPageSize:     pagination.DefaultMaxPageSize,
	})
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	filter := repositories.ProductListFilter{
		Status:        strings.TrimSpace(r.URL.Query().Get("status")),
		PublishedOnly: r.URL.Query().Get("published") == "true",
	}
	filter.Pagination.PageSize = params.PageSize
	filter.Pagination.PageToken = params.PageToken

	page, err := h.products.List(ctx, filter)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}

	items := make([]map[string]any, 0, len(page.Items))
	for _, record := range page.Items {
		items = append(items, productResponse(record))
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"items":         items,
		"nextPageToken": page.NextPageToken,
	})
}

func (h *AdminProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	record, err := h.products.Get(ctx, id)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, productResponse(record))
}

func (h *AdminProductHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}
	payload, ok := decodeProductPayload(ctx, w, r)
	if !ok {
		return
	}

	record, err := h.products.Update(ctx, id, payload)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, productResponse(record))
}

func (h *AdminProductHandlers) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	if err := h.products.Delete(ctx, id); err != nil {
		writeProductError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminProductHandlers) publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	var req struct {
		PublishedAt string `json:"publishedAt"`
	}
	if body, err := readLimitedBody(r, maxProductRequestBody); err == nil {
		if err := json.Unmarshal(body, &req); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
			return
		}
	}

	var at time.Time
	if strings.TrimSpace(req.PublishedAt) != "" {
		parsed, err := time.Parse(time.RFC3339, req.PublishedAt)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "publishedAt must be RFC3339", http.StatusBadRequest))
			return
		}
		at = parsed
	}

	record, err := h.products.Publish(ctx, id, at)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, productResponse(record))
}

func (h *AdminProductHandlers) unpublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	record, err := h.products.Unpublish(ctx, id)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, productResponse(record))
}

func (h *AdminProductHandlers) duplicate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	record, err := h.products.Duplicate(ctx, id)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, productResponse(record))
}

func (h *AdminProductHandlers) labelSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.labels == nil {
		writeServiceUnavailable(ctx, w, "label")
		return
	}
	id, ok := productIDParam(ctx, w, r)
	if !ok {
		return
	}

	sheet, err := h.labels.Sheet(ctx, id)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, sheet)
}

func (h *AdminProductHandlers) runBackfill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.backfill == nil {
		writeServiceUnavailable(ctx, w, "backfill")
		return
	}

	report, err := h.backfill.Run(ctx)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("backfill_failed", err.Error(), http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"scanned": report.Scanned,
		"updated": report.Updated,
		"failed":  report.Failed,
	})
}

func productIDParam(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "productID"))
	if id == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return "", false
	}
	return id, true
}

func decodeProductPayload(ctx context.Context, w http.ResponseWriter, r *http.Request) (codegen.Record, bool) {
	body, err := readLimitedBody(r, maxProductRequestBody)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return nil, false
	}

	var payload codegen.Record
	if err := json.Unmarshal(body, &payload); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return nil, false
	}
	return payload, true
}

func productResponse(record repositories.ProductRecord) map[string]any {
	out := make(map[string]any, len(record.Data)+1)
	for k, v := range record.Data {
		out[k] = v
	}
	out["id"] = record.ID
	return out
}

func writeServiceUnavailable(ctx context.Context, w http.ResponseWriter, name string) {
	httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", name+" service not available", http.StatusServiceUnavailable))
}

func writeProductError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrProductInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrProductPublishBlocked):
		httpx.WriteError(ctx, w, httpx.NewError("publish_blocked", err.Error(), http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
	}
}
