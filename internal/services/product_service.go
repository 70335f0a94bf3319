package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

var (
	// ErrProductInvalidInput indicates the submitted payload cannot be processed.
	ErrProductInvalidInput = errors.New("product: invalid input")
	// ErrProductNotFound indicates the requested product does not exist.
	ErrProductNotFound = errors.New("product: not found")
	// ErrProductPublishBlocked indicates the payload fails the publish completeness checks.
	ErrProductPublishBlocked = errors.New("product: publish blocked")
)

// ProductServiceDeps bundles collaborators required to construct a product service instance.
type ProductServiceDeps struct {
	Products  repositories.ProductRepository
	Generator *codegen.Generator
	Sync      SyncEventPublisher
	Logger    *zap.Logger
	Clock     func() time.Time
	NewID     func() string
}

type productService struct {
	products  repositories.ProductRepository
	generator *codegen.Generator
	sync      SyncEventPublisher
	logger    *zap.Logger
	clock     func() time.Time
	newID     func() string
}

// NewProductService constructs the product write service.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Products == nil {
		return nil, errors.New("product service: product repository is required")
	}
	if deps.Generator == nil {
		return nil, errors.New("product service: generator is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}

	return &productService{
		products:  deps.Products,
		generator: deps.Generator,
		sync:      deps.Sync,
		logger:    logger,
		clock:     clock,
		newID:     newID,
	}, nil
}

func (s *productService) Create(ctx context.Context, payload codegen.Record) (repositories.ProductRecord, error) {
	generated, err := s.generator.Generate(ctx, payload, codegen.ModeCreate)
	if err != nil {
		return repositories.ProductRecord{}, mapGeneratorError(err)
	}
	if err := codegen.PrePublishGuard(generated); err != nil {
		return repositories.ProductRecord{}, fmt.Errorf("%w: %v", ErrProductPublishBlocked, err)
	}

	id := s.newID()
	s.indexSizeStocks(generated)
	generated["createdAt"] = s.clock().UTC()
	generated["updatedAt"] = generated["createdAt"]

	if err := s.products.Insert(ctx, id, generated); err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	record := repositories.ProductRecord{ID: id, Data: generated}
	s.notify(ctx, record, "create")
	return record, nil
}

func (s *productService) Update(ctx context.Context, id string, payload codegen.Record) (repositories.ProductRecord, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	merged := codegen.Record(existing.Data).Clone()
	for k, v := range payload {
		merged[k] = v
	}

	generated, err := s.generator.Generate(ctx, merged, codegen.ModeUpdate)
	if err != nil {
		return repositories.ProductRecord{}, mapGeneratorError(err)
	}
	if err := codegen.PrePublishGuard(generated); err != nil {
		return repositories.ProductRecord{}, fmt.Errorf("%w: %v", ErrProductPublishBlocked, err)
	}

	s.indexSizeStocks(generated)
	generated["updatedAt"] = s.clock().UTC()

	if err := s.products.Update(ctx, id, generated); err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	record := repositories.ProductRecord{ID: id, Data: generated}
	s.notify(ctx, record, "update")
	return record, nil
}

func (s *productService) Publish(ctx context.Context, id string, at time.Time) (repositories.ProductRecord, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	rec := codegen.Record(existing.Data).Clone()
	if at.IsZero() {
		at = s.clock()
	}
	rec["publishedAt"] = at.UTC().Format(time.RFC3339)

	if err := codegen.PrePublishGuard(rec); err != nil {
		return repositories.ProductRecord{}, fmt.Errorf("%w: %v", ErrProductPublishBlocked, err)
	}

	if err := s.products.Patch(ctx, id, map[string]any{
		"publishedAt": rec["publishedAt"],
		"updatedAt":   s.clock().UTC(),
	}); err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	record := repositories.ProductRecord{ID: id, Data: rec}
	s.notify(ctx, record, "publish")
	return record, nil
}

func (s *productService) Unpublish(ctx context.Context, id string) (repositories.ProductRecord, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	rec := codegen.Record(existing.Data).Clone()
	rec["publishedAt"] = nil

	if err := s.products.Patch(ctx, id, map[string]any{
		"publishedAt": nil,
		"updatedAt":   s.clock().UTC(),
	}); err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	record := repositories.ProductRecord{ID: id, Data: rec}
	s.notify(ctx, record, "unpublish")
	return record, nil
}

// Duplicate clones a product as an unpublished draft. Generated identifiers
// are wiped so the create path mints fresh ones, and variants are reduced
// to their base attributes for the same reason.
func (s *productService) Duplicate(ctx context.Context, id string) (repositories.ProductRecord, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}

	src := codegen.Record(existing.Data)
	copyRec := src.Clone()

	name := src.String("name")
	copyRec["name"] = name + " (copy)"

	slugBase := src.String("slug")
	if slugBase == "" {
		slugBase = name
	}
	copyRec["slug"] = codegen.Slugify(fmt.Sprintf("%s-copy-%d", slugBase, s.clock().UnixMilli()))

	for _, field := range []string{
		"uuid",
		"product_code",
		"base_sku",
		"generated_sku",
		"barcode",
		"factory_batch_code",
		"label_serial_code",
		"tag_serial_code",
		"size_stock_ids",
	} {
		delete(copyRec, field)
	}

	if variants, ok := copyRec["product_variants"].([]any); ok {
		reduced := make([]any, 0, len(variants))
		for _, item := range variants {
			v, ok := item.(map[string]any)
			if !ok {
				continue
			}
			reduced = append(reduced, map[string]any{
				"color": v["color"],
				"size":  v["size"],
				"image": v["image"],
			})
		}
		copyRec["product_variants"] = reduced
	}

	copyRec["publishedAt"] = nil
	copyRec["status"] = "Draft"

	return s.Create(ctx, copyRec)
}

func (s *productService) Delete(ctx context.Context, id string) error {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	s.notify(ctx, existing, "delete")
	return nil
}

func (s *productService) Get(ctx context.Context, id string) (repositories.ProductRecord, error) {
	record, err := s.products.FindByID(ctx, id)
	if err != nil {
		return repositories.ProductRecord{}, mapRepositoryError(err)
	}
	return record, nil
}

func (s *productService) List(ctx context.Context, filter repositories.ProductListFilter) (domain.CursorPage[repositories.ProductRecord], error) {
	page, err := s.products.List(ctx, filter)
	if err != nil {
		return domain.CursorPage[repositories.ProductRecord]{}, mapRepositoryError(err)
	}
	return page, nil
}

// indexSizeStocks assigns ids to new size-stock entries and rebuilds the
// size_stock_ids index array the stock sync path queries against.
func (s *productService) indexSizeStocks(rec codegen.Record) {
	variants, ok := rec["product_variants"].([]any)
	if !ok {
		return
	}

	var ids []any
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
			id, _ := entry["id"].(string)
			if strings.TrimSpace(id) == "" {
				id = s.newID()
				entry["id"] = id
			}
			ids = append(ids, id)
		}
	}

	if len(ids) > 0 {
		rec["size_stock_ids"] = ids
	} else {
		delete(rec, "size_stock_ids")
	}
}

func (s *productService) notify(ctx context.Context, record repositories.ProductRecord, action string) {
	if s.sync == nil {
		return
	}

	slug, _ := record.Data["slug"].(string)
	if record.ID == "" && slug == "" {
		s.logger.Warn("product entry has no id or slug, skipping sync", zap.String("action", action))
		return
	}

	msgID, err := s.sync.PublishProductSync(ctx, ProductSyncMessage{
		ProductID: record.ID,
		Slug:      slug,
		Action:    action,
	})
	if err != nil {
		s.logger.Error("failed to publish product sync event",
			zap.String("product_id", record.ID),
			zap.String("action", action),
			zap.Error(err))
		return
	}
	s.logger.Info("published product sync event",
		zap.String("product_id", record.ID),
		zap.String("slug", slug),
		zap.String("action", action),
		zap.String("message_id", msgID))
}

func mapGeneratorError(err error) error {
	if errors.Is(err, codegen.ErrInvalidInput) {
		return fmt.Errorf("%w: %v", ErrProductInvalidInput, err)
	}
	return err
}

func mapRepositoryError(err error) error {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) && repoErr.IsNotFound() {
		return fmt.Errorf("%w: %v", ErrProductNotFound, err)
	}
	return err
}
