package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

func newTestLabelService(t *testing.T, repo *stubProductRepository) LabelService {
	t.Helper()
	svc, err := NewLabelService(LabelServiceDeps{Products: repo})
	if err != nil {
		t.Fatalf("NewLabelService: %v", err)
	}
	return svc
}

func TestLabelSheetListsProductAndSizes(t *testing.T) {
	record := repositories.ProductRecord{
		ID: "p-1",
		Data: map[string]any{
			"name":         "Basic Tee",
			"product_code": "TEE-26-0007",
			"barcode":      "2012345678905",
			"product_variants": []any{
				map[string]any{
					"color": "Red",
					"size_stocks": []any{
						map[string]any{"size_name": "M", "generated_sku": "TEE-0007-RED-M", "barcode": "2000000000016"},
						map[string]any{"size_name": "L", "generated_sku": "TEE-0007-RED-L", "barcode": "2000000000023"},
					},
				},
				map[string]any{
					"color":         "Blue",
					"generated_sku": "TEE-0007-BLU",
					"barcode":       "2000000000030",
				},
			},
		},
	}
	repo := &stubProductRepository{
		findByIDFn: func(_ context.Context, _ string) (repositories.ProductRecord, error) {
			return record, nil
		},
	}
	svc := newTestLabelService(t, repo)

	sheet, err := svc.Sheet(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}

	if sheet.ProductName != "Basic Tee" || sheet.ProductCode != "TEE-26-0007" {
		t.Fatalf("sheet header = %+v", sheet)
	}
	if len(sheet.Items) != 4 {
		t.Fatalf("items = %+v", sheet.Items)
	}
	if sheet.Items[0].Code != "TEE-26-0007" || sheet.Items[0].Barcode != "2012345678905" {
		t.Fatalf("product item = %+v", sheet.Items[0])
	}
	if sheet.Items[1].Name != "Basic Tee Red M" || sheet.Items[1].Code != "TEE-0007-RED-M" {
		t.Fatalf("size item = %+v", sheet.Items[1])
	}
	// A variant without expanded sizes still gets one label line.
	if sheet.Items[3].Name != "Basic Tee Blue" || sheet.Items[3].Code != "TEE-0007-BLU" {
		t.Fatalf("variant item = %+v", sheet.Items[3])
	}
}

func TestLabelSheetCapsItemCount(t *testing.T) {
	sizes := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		sizes = append(sizes, map[string]any{
			"size_name":     fmt.Sprintf("S%d", i),
			"generated_sku": fmt.Sprintf("SKU-%d", i),
		})
	}
	record := repositories.ProductRecord{
		ID: "p-1",
		Data: map[string]any{
			"name":             "Basic Tee",
			"product_code":     "TEE-26-0007",
			"product_variants": []any{map[string]any{"color": "Red", "size_stocks": sizes}},
		},
	}
	repo := &stubProductRepository{
		findByIDFn: func(_ context.Context, _ string) (repositories.ProductRecord, error) {
			return record, nil
		},
	}
	svc := newTestLabelService(t, repo)

	sheet, err := svc.Sheet(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("Sheet: %v", err)
	}
	if len(sheet.Items) != 64 {
		t.Fatalf("items = %d, want 64", len(sheet.Items))
	}
}

func TestLabelSheetNotFound(t *testing.T) {
	svc := newTestLabelService(t, &stubProductRepository{})
	if _, err := svc.Sheet(context.Background(), "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("error = %v, want ErrProductNotFound", err)
	}
}
