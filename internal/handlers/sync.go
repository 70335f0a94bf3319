package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/platform/httpx"
	"github.com/the-dna-lab/catalog-api/internal/services"
)

const maxStockSyncBody = 512 * 1024

// SyncHandlers exposes the internal endpoints the storefront cron calls.
type SyncHandlers struct {
	stock services.StockSyncService
}

// NewSyncHandlers constructs the sync handler set.
func NewSyncHandlers(stock services.StockSyncService) *SyncHandlers {
	return &SyncHandlers{stock: stock}
}

// Routes registers the sync endpoints beneath /internal.
func (h *SyncHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/sync/stock", h.stockSync)
}

func (h *SyncHandlers) stockSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.stock == nil {
		writeServiceUnavailable(ctx, w, "stock sync")
		return
	}

	body, err := readLimitedBody(r, maxStockSyncBody)
	if err != nil {
		switch {
		case errors.Is(err, errBodyTooLarge):
			httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		case errors.Is(err, errEmptyBody):
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
		default:
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		}
		return
	}

	var req struct {
		Items []domain.StockSyncItem `json:"items"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		// The cron historically posted a bare array, keep accepting it.
		if err := json.Unmarshal(body, &req.Items); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
			return
		}
	}
	if len(req.Items) == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "items are required", http.StatusBadRequest))
		return
	}

	result, err := h.stock.ApplyStockSync(ctx, req.Items)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected error", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}
