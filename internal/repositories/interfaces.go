package repositories

import (
	"context"

	domain "github.com/the-dna-lab/catalog-api/internal/domain"
)

// Registry exposes typed repository accessors and lifecycle hooks for dependency injection.
type Registry interface {
	Close(ctx context.Context) error

	Products() ProductRepository
	Categories() CategoryRepository
	Factories() FactoryRepository
	Sequences() SequenceRepository
	Health() HealthRepository
	UnitOfWork
}

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// UnitOfWork allows grouping repository operations in a transactional boundary when supported.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductRecord is a stored product document plus its identifier.
type ProductRecord struct {
	ID   string
	Data map[string]any
}

// ProductRepository persists the loosely typed product documents the code
// generator operates on.
type ProductRepository interface {
	Insert(ctx context.Context, id string, data map[string]any) error
	Update(ctx context.Context, id string, data map[string]any) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (ProductRecord, error)
	FindBySlug(ctx context.Context, slug string) (ProductRecord, error)
	FindByUUID(ctx context.Context, uuid string) (ProductRecord, error)
	List(ctx context.Context, filter ProductListFilter) (domain.CursorPage[ProductRecord], error)
	// FindBySizeStockID resolves the product embedding the given size-stock
	// entry via the size_stock_ids index field.
	FindBySizeStockID(ctx context.Context, sizeID string) (ProductRecord, error)
	// MaxSequence scans for the highest 4-digit suffix stored under attr
	// values starting with prefix. Returns 0 when none exist.
	MaxSequence(ctx context.Context, attr, prefix string) (int64, error)
}

// ProductListFilter controls admin product listings and backfill scans.
type ProductListFilter struct {
	Status        string
	PublishedOnly bool
	Pagination    domain.Pagination
}

// CategoryRepository resolves category lookup records.
type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (domain.Category, error)
}

// FactoryRepository resolves factory lookup records.
type FactoryRepository interface {
	FindByID(ctx context.Context, id string) (domain.Factory, error)
}

// SeedFunc computes the starting value for a sequence that does not exist
// yet, typically by scanning existing documents for the highest used value.
type SeedFunc func(ctx context.Context) (int64, error)

// SequenceRepository provides transaction-safe sequence numbers keyed by
// attribute and prefix.
type SequenceRepository interface {
	Next(ctx context.Context, sequenceID string, seed SeedFunc) (int64, error)
}

// HealthRepository exposes status of downstream dependencies for health checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}
