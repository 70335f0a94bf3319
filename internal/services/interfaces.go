package services

import (
	"context"
	"time"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// SequenceService hands out the next sequence number for a code attribute
// under a prefix, seeding fresh sequences from the existing data.
type SequenceService interface {
	NextSequence(ctx context.Context, attr, prefix string) (int64, error)
}

// ProductService owns the product write path: every mutation runs the code
// generator so identifiers and defaults are always consistent on disk.
type ProductService interface {
	Create(ctx context.Context, payload codegen.Record) (repositories.ProductRecord, error)
	Update(ctx context.Context, id string, payload codegen.Record) (repositories.ProductRecord, error)
	Publish(ctx context.Context, id string, at time.Time) (repositories.ProductRecord, error)
	Unpublish(ctx context.Context, id string) (repositories.ProductRecord, error)
	Duplicate(ctx context.Context, id string) (repositories.ProductRecord, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (repositories.ProductRecord, error)
	List(ctx context.Context, filter repositories.ProductListFilter) (domain.CursorPage[repositories.ProductRecord], error)
}

// PublicCatalogService serialises stored products into the public shape
// consumed by the storefront.
type PublicCatalogService interface {
	GetByIDOrSlug(ctx context.Context, idOrSlug string, baseURL string) (map[string]any, error)
}

// StockSyncService applies size-level stock updates pushed by the
// storefront cron.
type StockSyncService interface {
	ApplyStockSync(ctx context.Context, items []domain.StockSyncItem) (domain.StockSyncResult, error)
}

// LabelService assembles printable label sheets for a product and its
// variants.
type LabelService interface {
	Sheet(ctx context.Context, productID string) (domain.LabelSheet, error)
}

// BackfillReport summarises one backfill sweep over the product collection.
type BackfillReport struct {
	Scanned int
	Updated int
	Failed  []BackfillFailure
}

// BackfillFailure records one product the backfill could not repair.
type BackfillFailure struct {
	ProductID string
	Reason    string
}

// BackfillService re-runs code generation over existing products to fill
// in identifiers that older writes left empty.
type BackfillService interface {
	Run(ctx context.Context) (BackfillReport, error)
}

// SystemService surfaces operational state for health endpoints.
type SystemService interface {
	Health(ctx context.Context) (domain.SystemHealthReport, error)
}

// ProductSyncMessage notifies downstream consumers that a product changed.
type ProductSyncMessage struct {
	ProductID string `json:"productId"`
	Slug      string `json:"slug,omitempty"`
	Action    string `json:"action"`
}

// SyncEventPublisher fans product change events out to the storefront
// revalidation pipeline. Publish failures are logged, never fatal to the
// originating write.
type SyncEventPublisher interface {
	PublishProductSync(ctx context.Context, message ProductSyncMessage) (string, error)
}
