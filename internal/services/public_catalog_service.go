package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/codegen"
	"github.com/the-dna-lab/catalog-api/internal/domain"
	"github.com/the-dna-lab/catalog-api/internal/repositories"
)

// PublicCatalogServiceDeps bundles collaborators required to construct a public catalog service instance.
type PublicCatalogServiceDeps struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Logger     *zap.Logger
}

type publicCatalogService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	logger     *zap.Logger
}

// NewPublicCatalogService constructs the read-side service that shapes
// stored products for storefront consumption.
func NewPublicCatalogService(deps PublicCatalogServiceDeps) (PublicCatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("public catalog service: product repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &publicCatalogService{
		products:   deps.Products,
		categories: deps.Categories,
		logger:     logger,
	}, nil
}

func (s *publicCatalogService) GetByIDOrSlug(ctx context.Context, idOrSlug string, baseURL string) (map[string]any, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrProductNotFound)
	}

	record, err := s.resolve(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	// The public surface only ever serves live products.
	if published, _ := record.Data["publishedAt"]; published == nil || published == "" {
		return nil, fmt.Errorf("%w: %q is not published", ErrProductNotFound, idOrSlug)
	}

	return s.shape(ctx, record, strings.TrimRight(baseURL, "/")), nil
}

func (s *publicCatalogService) resolve(ctx context.Context, idOrSlug string) (repositories.ProductRecord, error) {
	lookups := []func(context.Context, string) (repositories.ProductRecord, error){
		s.products.FindByID,
		s.products.FindBySlug,
		s.products.FindByUUID,
	}
	for _, lookup := range lookups {
		record, err := lookup(ctx, idOrSlug)
		if err == nil {
			return record, nil
		}
		var repoErr repositories.RepositoryError
		if !errors.As(err, &repoErr) || !repoErr.IsNotFound() {
			return repositories.ProductRecord{}, err
		}
	}
	return repositories.ProductRecord{}, fmt.Errorf("%w: %q", ErrProductNotFound, idOrSlug)
}

func (s *publicCatalogService) shape(ctx context.Context, record repositories.ProductRecord, baseURL string) map[string]any {
	rec := codegen.Record(record.Data)

	images := mediaList(rec.Slice("images"), baseURL)
	gallery := mediaList(rec.Slice("gallery"), baseURL)

	var cover *domain.MediaFile
	if len(images) > 0 {
		cover = &images[0]
	} else if len(gallery) > 0 {
		cover = &gallery[0]
	}

	// Product-level price fallbacks feed every variant that does not
	// carry its own override.
	productSale := firstNumber(rec["selling_price"], rec["base_price"])
	if productSale == nil {
		zero := 0.0
		productSale = &zero
	}
	productCompare := firstNumber(rec["compare_price"], rec["discount_price"])

	variants, priceMin, priceMax, stockTotal, sawSizes := s.shapeVariants(rec, productSale, productCompare, baseURL)
	if !sawSizes {
		if inv := firstNumber(rec["inventory"]); inv != nil {
			stockTotal = int64(*inv)
		}
	}
	if priceMin == nil {
		priceMin = productSale
		priceMax = productSale
	}

	pricing := map[string]any{
		"currency": stringOr(rec.String("currency"), "BDT"),
		"price":    *productSale,
		"min":      *priceMin,
		"max":      *priceMax,
	}
	if productCompare != nil {
		pricing["compare_at_price"] = *productCompare
	}

	out := map[string]any{
		"id":           record.ID,
		"name":         rec.String("name"),
		"slug":         rec.String("slug"),
		"status":       rec.String("status"),
		"published_at": rec["publishedAt"],
		"cover":        cover,
		"images":       images,
		"gallery":      gallery,
		"pricing":      pricing,
		"variants":     variants,
		"stock": map[string]any{
			"total":    stockTotal,
			"in_stock": stockTotal > 0,
		},
		"seo":       s.primarySEO(rec),
		"alt_names": shapeAltNames(rec.Slice("alt_names_entries")),
		"codes": map[string]any{
			"uuid":         rec.String("uuid"),
			"product_code": rec.String("product_code"),
			"base_sku":     rec.String("base_sku"),
			"barcode":      rec.String("barcode"),
			"hs_code":      rec.String("hs_code"),
		},
		"categories":  s.shapeCategories(ctx, rec.Slice("categories")),
		"size_system": rec.String("size_system"),
	}

	if desc := rec.String("description"); desc != "" {
		out["description"] = desc
	}
	if sd := rec.String("short_description"); sd != "" {
		out["short_description"] = sd
	}
	if translations := rec.Slice("translations"); len(translations) > 0 {
		out["translations"] = translations
	}
	return out
}

func (s *publicCatalogService) shapeVariants(rec codegen.Record, productSale, productCompare *float64, baseURL string) (shaped []map[string]any, priceMin, priceMax *float64, stockTotal int64, sawSizes bool) {
	for _, item := range rec.Slice("product_variants") {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}

		var sizes []map[string]any
		var variantMin, variantMax *float64
		var variantStock int64

		rawSizes, _ := v["size_stocks"].([]any)
		for _, raw := range rawSizes {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			sawSizes = true

			price := firstNumber(entry["price_override"], entry["price"])
			if price == nil {
				price = productSale
			}
			compare := firstNumber(entry["compare_at_price"])
			if compare == nil {
				compare = productCompare
			}

			active := true
			if b, ok := entry["is_active"].(bool); ok {
				active = b
			}

			var stock int64
			if n := firstNumber(entry["stock_quantity"]); n != nil {
				stock = int64(*n)
			}
			if active {
				variantStock += stock
			}

			variantMin, variantMax = widenRange(variantMin, variantMax, *price)

			size := map[string]any{
				"id":              entry["id"],
				"name":            entry["size_name"],
				"system":          entry["size_system"],
				"primary_value":   entry["primary_value"],
				"secondary_value": entry["secondary_value"],
				"sku":             entry["generated_sku"],
				"barcode":         entry["barcode"],
				"stock":           stock,
				"price":           *price,
				"is_active":       active,
			}
			if compare != nil {
				size["compare_at_price"] = *compare
			}
			sizes = append(sizes, size)
		}

		stockTotal += variantStock
		priceMin, priceMax = mergeRange(priceMin, priceMax, variantMin, variantMax)

		shapedVariant := map[string]any{
			"color":     v["color"],
			"color_key": v["color_key"],
			"sku":       v["generated_sku"],
			"barcode":   v["barcode"],
			"sizes":     sizes,
			"stock":     variantStock,
		}
		if img := mediaEntry(v["image"], baseURL); img != nil {
			shapedVariant["image"] = img
		}
		if variantMin != nil {
			shapedVariant["price_range"] = map[string]any{"min": *variantMin, "max": *variantMax}
		}
		shaped = append(shaped, shapedVariant)
	}
	return shaped, priceMin, priceMax, stockTotal, sawSizes
}

// primarySEO picks the website/en entry when present, the first entry
// otherwise, and falls back to generated defaults for legacy records
// saved before SEO defaults existed.
func (s *publicCatalogService) primarySEO(rec codegen.Record) domain.SEORecord {
	entries := rec.Slice("seo")

	var chosen map[string]any
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		channel, _ := entry["channel"].(string)
		lang, _ := entry["lang"].(string)
		if channel == "website" && lang == "en" {
			chosen = entry
			break
		}
		if chosen == nil {
			chosen = entry
		}
	}
	if chosen == nil {
		chosen = codegen.BuildDefaultSEO(rec, nil)
	}

	seo := domain.SEORecord{
		Title:       stringField(chosen, "title"),
		Description: stringField(chosen, "description"),
		Lang:        stringOr(stringField(chosen, "lang"), "en"),
		Channel:     stringOr(stringField(chosen, "channel"), "website"),
	}
	if keywords, ok := chosen["keywords"].([]any); ok {
		for _, raw := range keywords {
			if kw, ok := raw.(map[string]any); ok {
				if value := stringField(kw, "value"); value != "" {
					seo.Keywords = append(seo.Keywords, value)
				}
				continue
			}
			if value, ok := raw.(string); ok && value != "" {
				seo.Keywords = append(seo.Keywords, value)
			}
		}
	}
	return seo
}

func (s *publicCatalogService) shapeCategories(ctx context.Context, ids []any) []map[string]any {
	out := make([]map[string]any, 0, len(ids))
	for _, raw := range ids {
		id := sizeIDString(raw)
		if id == "" {
			continue
		}
		if s.categories != nil {
			if cat, err := s.categories.FindByID(ctx, id); err == nil {
				out = append(out, map[string]any{
					"id":   id,
					"name": cat.Name,
					"code": cat.Code,
				})
				continue
			} else {
				s.logger.Warn("failed to resolve category for public shape",
					zap.String("category_id", id),
					zap.Error(err))
			}
		}
		out = append(out, map[string]any{"id": id})
	}
	return out
}

func shapeAltNames(entries []any) map[string]any {
	list := make([]string, 0, len(entries))
	byLang := make(map[string][]string)
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		value := stringField(entry, "value")
		if value == "" {
			continue
		}
		list = append(list, value)
		lang := stringOr(stringField(entry, "lang"), "en")
		byLang[lang] = append(byLang[lang], value)
	}
	return map[string]any{"list": list, "by_lang": byLang}
}

func mediaList(values []any, baseURL string) []domain.MediaFile {
	out := make([]domain.MediaFile, 0, len(values))
	for _, raw := range values {
		if m := mediaEntry(raw, baseURL); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// mediaEntry flattens whatever shape the stored media field carries into
// an absolute-URL MediaFile. Stored values are usually file ids, but
// legacy documents still embed {url} objects.
func mediaEntry(v any, baseURL string) *domain.MediaFile {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		url := stringField(t, "url")
		if url == "" {
			return nil
		}
		return &domain.MediaFile{
			ID:  t["id"],
			URL: absoluteURL(url, baseURL),
			Alt: stringField(t, "alternativeText"),
		}
	case string:
		if t == "" {
			return nil
		}
		if strings.Contains(t, "://") || strings.HasPrefix(t, "/") {
			return &domain.MediaFile{URL: absoluteURL(t, baseURL)}
		}
		return &domain.MediaFile{ID: t, URL: baseURL + "/uploads/" + t}
	default:
		id := sizeIDString(v)
		if id == "" {
			return nil
		}
		return &domain.MediaFile{ID: id, URL: baseURL + "/uploads/" + id}
	}
}

func absoluteURL(url, baseURL string) string {
	if strings.Contains(url, "://") {
		return url
	}
	if strings.HasPrefix(url, "/") {
		return baseURL + url
	}
	return baseURL + "/" + url
}

func firstNumber(values ...any) *float64 {
	for _, v := range values {
		switch t := v.(type) {
		case float64:
			f := t
			return &f
		case int:
			f := float64(t)
			return &f
		case int64:
			f := float64(t)
			return &f
		}
	}
	return nil
}

func widenRange(min, max *float64, value float64) (*float64, *float64) {
	if min == nil || value < *min {
		v := value
		min = &v
	}
	if max == nil || value > *max {
		v := value
		max = &v
	}
	return min, max
}

func mergeRange(min, max, otherMin, otherMax *float64) (*float64, *float64) {
	if otherMin != nil {
		min, max = widenRange(min, max, *otherMin)
	}
	if otherMax != nil {
		min, max = widenRange(min, max, *otherMax)
	}
	return min, max
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
