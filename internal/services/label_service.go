package services

import (
	"context"
	"errors"
	"strings"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// Printable sheets are capped so one oversized product cannot blow up the
// label printer queue.
const maxLabelItems = 64

// LabelServiceDeps bundles collaborators required to construct a label service instance.
type LabelServiceDeps struct {
	Products repositories.ProductRepository
}

type labelService struct {
	products repositories.ProductRepository
}

// NewLabelService constructs the service that assembles printable label
// sheets for factory batches and hang tags.
func NewLabelService(deps LabelServiceDeps) (LabelService, error) {
	if deps.Products == nil {
		return nil, errors.New("label service: product repository is required")
	}
	return &labelService{products: deps.Products}, nil
}

func (s *labelService) Sheet(ctx context.Context, productID string) (domain.LabelSheet, error) {
	record, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return domain.LabelSheet{}, mapRepositoryError(err)
	}

	data := record.Data
	name, _ := data["name"].(string)
	productCode, _ := data["product_code"].(string)
	barcode, _ := data["barcode"].(string)

	sheet := domain.LabelSheet{
		ProductName: name,
		ProductCode: productCode,
	}
	sheet.Items = append(sheet.Items, domain.LabelItem{
		Name:    name,
		Code:    productCode,
		Barcode: barcode,
	})

	variants, _ := data["product_variants"].([]any)
	for _, item := range variants {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		color, _ := v["color"].(string)

		sizes, _ := v["size_stocks"].([]any)
		if len(sizes) == 0 {
			sku, _ := v["generated_sku"].(string)
			vBarcode, _ := v["barcode"].(string)
			sheet.Items = appendLabel(sheet.Items, labelName(name, color, ""), sku, vBarcode)
			continue
		}

		for _, raw := range sizes {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			sizeName, _ := entry["size_name"].(string)
			sku, _ := entry["generated_sku"].(string)
			sBarcode, _ := entry["barcode"].(string)
			sheet.Items = appendLabel(sheet.Items, labelName(name, color, sizeName), sku, sBarcode)
		}
	}

	return sheet, nil
}

func appendLabel(items []domain.LabelItem, name, code, barcode string) []domain.LabelItem {
	if len(items) >= maxLabelItems {
		return items
	}
	return append(items, domain.LabelItem{Name: name, Code: code, Barcode: barcode})
}

func labelName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
