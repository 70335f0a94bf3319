package services

import (
	"context"
	"testing"

	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

func newTestBackfillService(t *testing.T, repo *stubProductRepository) BackfillService {
	t.Helper()
	svc, err := NewBackfillService(BackfillServiceDeps{
		Products:  repo,
		Generator: newServiceGenerator(t),
	})
	if err != nil {
		t.Fatalf("NewBackfillService: %v", err)
	}
	return svc
}

func TestBackfillFillsMissingCodes(t *testing.T) {
	items := []repositories.ProductRecord{
		{
			ID: "p-legacy",
			Data: map[string]any{
				"name":       "Legacy Tee",
				"slug":       "legacy-tee",
				"categories": []any{"cat-1"},
			},
		},
		{
			ID: "p-complete",
			Data: map[string]any{
				"name":               "Complete Tee",
				"slug":               "complete-tee",
				"uuid":               "uuid-done",
				"categories":         []any{"cat-1"},
				"product_code":       "TEE-25-0009",
				"base_sku":           "TEE-0009",
				"generated_sku":      "TEE-0009",
				"barcode":            "2012345678905",
				"factory_batch_code": "FB-DHK01-20250101-0001",
				"label_serial_code":  "LBL-2501-0001",
				"tag_serial_code":    "TAG-2501-0001",
				"hs_code":            "6109.10",
			},
		},
	}
	repo := &stubProductRepository{
		listFn: func(_ context.Context, filter repositories.ProductListFilter) (domain.CursorPage[repositories.ProductRecord], error) {
			if filter.Pagination.PageToken == "" {
				return domain.CursorPage[repositories.ProductRecord]{
					Items:         items[:1],
					NextPageToken: "page-2",
				}, nil
			}
			return domain.CursorPage[repositories.ProductRecord]{Items: items[1:]}, nil
		},
	}
	svc := newTestBackfillService(t, repo)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Scanned != 2 || report.Updated != 1 || len(report.Failed) != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(repo.patched) != 1 {
		t.Fatalf("patched = %+v", repo.patched)
	}

	patch := repo.patched[0]
	if patch["product_code"] != "TEE-26-0001" {
		t.Fatalf("patch product_code = %v", patch["product_code"])
	}
	if _, ok := patch["product_variants"]; ok {
		t.Fatalf("backfill must never touch variants: %+v", patch)
	}
	if patch["uuid"] != "fixed-uuid" {
		t.Fatalf("patch uuid = %v", patch["uuid"])
	}
}

func TestBackfillRecordsFailures(t *testing.T) {
	repo := &stubProductRepository{
		listFn: func(_ context.Context, _ repositories.ProductListFilter) (domain.CursorPage[repositories.ProductRecord], error) {
			return domain.CursorPage[repositories.ProductRecord]{
				Items: []repositories.ProductRecord{{
					ID: "p-bad",
					Data: map[string]any{
						"name":       "Bad Tee",
						"categories": []any{"cat-1"},
					},
				}},
			}, nil
		},
		patchFn: func(_ context.Context, _ string, _ map[string]any) error {
			return stubNotFound{}
		},
	}
	svc := newTestBackfillService(t, repo)

	report, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Scanned != 1 || report.Updated != 0 || len(report.Failed) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Failed[0].ProductID != "p-bad" {
		t.Fatalf("failure = %+v", report.Failed[0])
	}
}
