package di

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
	"github.com/the-dna-lab/catalog-api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon. Concrete implementations
// are assembled via dependency injection in NewContainer.
type Services struct {
	Products      services.ProductService
	PublicCatalog services.PublicCatalogService
	Labels        services.LabelService
	Backfill      services.BackfillService
	StockSync     services.StockSyncService
	Sequences     services.SequenceService
	System        services.SystemService
}

// ContainerDeps carries externally constructed collaborators into the container.
type ContainerDeps struct {
	Registry repositories.Registry
	Sync     services.SyncEventPublisher
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Container wires repositories, the code generator, and services for runtime use.
type Container struct {
	Repositories repositories.Registry
	Generator    *codegen.Generator
	Services     Services
}

// NewContainer constructs the runtime dependency graph. Production wiring provides a
// Firestore-backed registry, while tests can supply in-memory registries.
func NewContainer(deps ContainerDeps) (*Container, error) {
	reg := deps.Registry
	if reg == nil {
		return nil, errors.New("repositories registry is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	sequenceSvc, err := services.NewSequenceService(services.SequenceServiceDeps{
		Sequences: reg.Sequences(),
		Products:  reg.Products(),
	})
	if err != nil {
		return nil, fmt.Errorf("build sequence service: %w", err)
	}

	generator, err := codegen.NewGenerator(codegen.GeneratorDeps{
		Categories: services.CategoryLookupFromRepository(reg.Categories()),
		Factories:  services.FactoryLookupFromRepository(reg.Factories()),
		Sequences:  sequenceSvc,
		Registry:   domain.CatalogRegistry(),
		Logger:     logger.Named("codegen"),
		Clock:      clock,
	})
	if err != nil {
		return nil, fmt.Errorf("build generator: %w", err)
	}

	productSvc, err := services.NewProductService(services.ProductServiceDeps{
		Products:  reg.Products(),
		Generator: generator,
		Sync:      deps.Sync,
		Logger:    logger.Named("products"),
		Clock:     clock,
	})
	if err != nil {
		return nil, fmt.Errorf("build product service: %w", err)
	}

	publicSvc, err := services.NewPublicCatalogService(services.PublicCatalogServiceDeps{
		Products:   reg.Products(),
		Categories: reg.Categories(),
		Logger:     logger.Named("catalog"),
	})
	if err != nil {
		return nil, fmt.Errorf("build public catalog service: %w", err)
	}

	labelSvc, err := services.NewLabelService(services.LabelServiceDeps{
		Products: reg.Products(),
	})
	if err != nil {
		return nil, fmt.Errorf("build label service: %w", err)
	}

	backfillSvc, err := services.NewBackfillService(services.BackfillServiceDeps{
		Products:  reg.Products(),
		Generator: generator,
		Logger:    logger.Named("backfill"),
	})
	if err != nil {
		return nil, fmt.Errorf("build backfill service: %w", err)
	}

	stockSvc, err := services.NewStockSyncService(services.StockSyncServiceDeps{
		Products: reg.Products(),
		Logger:   logger.Named("stocksync"),
	})
	if err != nil {
		return nil, fmt.Errorf("build stock sync service: %w", err)
	}

	systemSvc, err := services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: reg.Health(),
		Clock:            clock,
	})
	if err != nil {
		return nil, fmt.Errorf("build system service: %w", err)
	}

	return &Container{
		Repositories: reg,
		Generator:    generator,
		Services: Services{
			Products:      productSvc,
			PublicCatalog: publicSvc,
			Labels:        labelSvc,
			Backfill:      backfillSvc,
			StockSync:     stockSvc,
			Sequences:     sequenceSvc,
			System:        systemSvc,
		},
	}, nil
}
