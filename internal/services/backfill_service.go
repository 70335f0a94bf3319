package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// backfillFields are the generated identifiers the backfill is allowed to
// write. Variants are deliberately excluded: re-expanding them on live
// records would clobber manually adjusted stock.
var backfillFields = []string{
	"uuid",
	"product_code",
	"base_sku",
	"generated_sku",
	"barcode",
	"factory_batch_code",
	"label_serial_code",
	"tag_serial_code",
	"hs_code",
}

const backfillPageSize = 100

// BackfillServiceDeps bundles collaborators required to construct a backfill service instance.
type BackfillServiceDeps struct {
	Products  repositories.ProductRepository
	Generator *codegen.Generator
	Logger    *zap.Logger
}

type backfillService struct {
	products  repositories.ProductRepository
	generator *codegen.Generator
	logger    *zap.Logger
}

// NewBackfillService constructs the service that sweeps stored products
// and fills in identifiers older writes left empty.
func NewBackfillService(deps BackfillServiceDeps) (BackfillService, error) {
	if deps.Products == nil {
		return nil, errors.New("backfill service: product repository is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("backfill service: generator is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backfillService{
		products:  deps.Products,
		generator: deps.Generator,
		logger:    logger,
	}, nil
}

func (s *backfillService) Run(ctx context.Context) (BackfillReport, error) {
	report := BackfillReport{}

	var token string
	for {
		page, err := s.products.List(ctx, repositories.ProductListFilter{
			Pagination: domain.Pagination{PageSize: backfillPageSize, PageToken: token},
		})
		if err != nil {
			return report, err
		}

		for _, record := range page.Items {
			report.Scanned++
			updated, err := s.backfillOne(ctx, record)
			if err != nil {
				s.logger.Warn("backfill failed for product",
					zap.String("product_id", record.ID),
					zap.Error(err))
				report.Failed = append(report.Failed, BackfillFailure{
					ProductID: record.ID,
					Reason:    err.Error(),
				})
				continue
			}
			if updated {
				report.Updated++
			}
		}

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}

	s.logger.Info("backfill sweep complete",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *backfillService) backfillOne(ctx context.Context, record repositories.ProductRecord) (bool, error) {
	generated, err := s.generator.Generate(ctx, codegen.Record(record.Data), codegen.ModeUpdate)
	if err != nil {
		return false, err
	}

	patch := make(map[string]any)
	for _, field := range backfillFields {
		before, _ := record.Data[field].(string)
		after, _ := generated[field].(string)
		if after != "" && after != before {
			patch[field] = after
		}
	}
	if len(patch) == 0 {
		return false, nil
	}

	if err := s.products.Patch(ctx, record.ID, patch); err != nil {
		return false, err
	}
	return true, nil
}
