package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

const (
	stockSyncMissingSizeID = "MISSING_sizeId"
	stockSyncRowNotFound   = "ROW_NOT_FOUND"
	stockSyncUpdateFailed  = "UPDATE_FAILED"
	stockSyncBadStock      = "INVALID_STOCK"
)

// StockSyncServiceDeps bundles collaborators required to construct a stock sync service instance.
type StockSyncServiceDeps struct {
	Products repositories.ProductRepository
	Logger   *zap.Logger
}

type stockSyncService struct {
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewStockSyncService constructs the service that applies stock pushes
// from the storefront. Items are applied independently so a bad row never
// blocks the rest of the batch.
func NewStockSyncService(deps StockSyncServiceDeps) (StockSyncService, error) {
	if deps.Products == nil {
		return nil, errors.New("stock sync service: product repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &stockSyncService{products: deps.Products, logger: logger}, nil
}

func (s *stockSyncService) ApplyStockSync(ctx context.Context, items []domain.StockSyncItem) (domain.StockSyncResult, error) {
	result := domain.StockSyncResult{
		Received: len(items),
		Updated:  []any{},
		Errors:   []domain.StockSyncError{},
	}

	for _, item := range items {
		sizeID := sizeIDString(item.SizeID)
		if sizeID == "" {
			result.Errors = append(result.Errors, domain.StockSyncError{
				SizeID: item.SizeID,
				Error:  stockSyncMissingSizeID,
			})
			continue
		}

		stock, ok := clampStock(item.Stock)
		if !ok {
			result.Errors = append(result.Errors, domain.StockSyncError{
				SizeID: item.SizeID,
				Error:  stockSyncBadStock,
			})
			continue
		}

		record, err := s.products.FindBySizeStockID(ctx, sizeID)
		if err != nil {
			var repoErr repositories.RepositoryError
			if errors.As(err, &repoErr) && repoErr.IsNotFound() {
				result.Errors = append(result.Errors, domain.StockSyncError{
					SizeID: item.SizeID,
					Error:  stockSyncRowNotFound,
				})
				continue
			}
			return result, err
		}

		variants, changed := applySizeStock(record.Data, sizeID, stock)
		if !changed {
			result.Errors = append(result.Errors, domain.StockSyncError{
				SizeID: item.SizeID,
				Error:  stockSyncRowNotFound,
			})
			continue
		}

		if err := s.products.Patch(ctx, record.ID, map[string]any{"product_variants": variants}); err != nil {
			s.logger.Error("failed to persist stock update",
				zap.String("product_id", record.ID),
				zap.String("size_id", sizeID),
				zap.Error(err))
			result.Errors = append(result.Errors, domain.StockSyncError{
				SizeID: item.SizeID,
				Error:  stockSyncUpdateFailed,
			})
			continue
		}

		result.Updated = append(result.Updated, item.SizeID)
	}

	result.UpdatedCount = len(result.Updated)
	return result, nil
}

// applySizeStock rewrites the matching size entry's stock quantity inside
// the variant tree and reports whether the entry was found.
func applySizeStock(data map[string]any, sizeID string, stock int64) ([]any, bool) {
	variants, _ := data["product_variants"].([]any)
	changed := false
	for _, item := range variants {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sizes, _ := v["size_stocks"].([]any)
		for _, raw := range sizes {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if sizeIDString(entry["id"]) == sizeID {
				entry["stock_quantity"] = stock
				changed = true
			}
		}
	}
	return variants, changed
}

func sizeIDString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// clampStock coerces the incoming value to a non-negative whole number.
func clampStock(v any) (int64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, true
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Max(0, math.Round(f))), true
}
