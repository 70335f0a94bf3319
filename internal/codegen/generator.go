package codegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

// Mode distinguishes a first write from an update of an existing product.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// CategoryLookup resolves a category by its id.
type CategoryLookup interface {
	CategoryByID(ctx context.Context, id any) (*domain.Category, error)
}

// FactoryLookup resolves a factory by its id.
type FactoryLookup interface {
	FactoryByID(ctx context.Context, id any) (*domain.Factory, error)
}

// SequenceAllocator hands out the next sequence number for a code
// attribute under a given prefix. Implementations must be safe under
// concurrent writers.
type SequenceAllocator interface {
	NextSequence(ctx context.Context, attr, prefix string) (int64, error)
}

// GeneratorDeps bundles collaborators required to construct a Generator.
type GeneratorDeps struct {
	Categories CategoryLookup
	Factories  FactoryLookup
	Sequences  SequenceAllocator
	Registry   domain.SchemaRegistry
	Logger     *zap.Logger
	Clock      func() time.Time
	NewUUID    func() string
}

// Generator derives every product identifier and default from a raw
// payload: uuid, product code, SKUs, EAN-13 barcodes, batch and serial
// codes, size breakdowns, and the SEO / alt-name / translation defaults.
type Generator struct {
	categories CategoryLookup
	factories  FactoryLookup
	sequences  SequenceAllocator
	registry   domain.SchemaRegistry
	logger     *zap.Logger
	clock      func() time.Time
	newUUID    func() string
}

// NewGenerator constructs a Generator from its dependencies.
func NewGenerator(deps GeneratorDeps) (*Generator, error) {
	if deps.Categories == nil {
		return nil, errors.New("codegen generator: category lookup is required")
	}
	if deps.Factories == nil {
		return nil, errors.New("codegen generator: factory lookup is required")
	}
	if deps.Sequences == nil {
		return nil, errors.New("codegen generator: sequence allocator is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("codegen generator: schema registry is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newUUID := deps.NewUUID
	if newUUID == nil {
		newUUID = uuid.NewString
	}

	return &Generator{
		categories: deps.Categories,
		factories:  deps.Factories,
		sequences:  deps.Sequences,
		registry:   deps.Registry,
		logger:     logger,
		clock:      clock,
		newUUID:    newUUID,
	}, nil
}

type genState struct {
	rec        Record
	mode       Mode
	schema     domain.Schema
	now        time.Time
	category   *domain.Category
	sizeSystem domain.SizeSystem
	done       bool
}

type genStep struct {
	name string
	fn   func(ctx context.Context, st *genState) error
}

// Generate runs the full pipeline over a copy of rec and returns the
// transformed payload. The input map is never mutated; on error the
// caller's record is untouched.
func (g *Generator) Generate(ctx context.Context, rec Record, mode Mode) (Record, error) {
	schema, ok := g.registry.ContentType(domain.UIDProduct)
	if !ok {
		return nil, errors.New("codegen generator: product schema not registered")
	}

	st := &genState{
		rec:    rec.Clone(),
		mode:   mode,
		schema: schema,
		now:    g.clock(),
	}

	steps := []genStep{
		{name: "normalize_relations", fn: g.stepNormalizeRelations},
		{name: "skip_unnamed_create", fn: g.stepSkipUnnamedCreate},
		{name: "defaults", fn: g.stepDefaults},
		{name: "identity_codes", fn: g.stepIdentityCodes},
		{name: "batch_codes", fn: g.stepBatchCodes},
		{name: "variants", fn: g.stepVariants},
		{name: "content_defaults", fn: g.stepContentDefaults},
		{name: "final_normalize", fn: g.stepFinalNormalize},
	}

	for _, step := range steps {
		snapshot := st.rec.Clone()
		prev := st.rec
		st.rec = snapshot
		if err := step.fn(ctx, st); err != nil {
			st.rec = prev
			return nil, fmt.Errorf("codegen step %s: %w", step.name, err)
		}
		if st.done {
			break
		}
	}

	return st.rec, nil
}

func (g *Generator) stepNormalizeRelations(_ context.Context, st *genState) error {
	SanitizeRelations(g.registry, st.schema, st.rec)
	return nil
}

// A create without a name is a bare draft; nothing to derive yet.
func (g *Generator) stepSkipUnnamedCreate(_ context.Context, st *genState) error {
	if st.mode == ModeCreate && st.rec.String("name") == "" {
		st.done = true
	}
	return nil
}

func (g *Generator) stepDefaults(_ context.Context, st *genState) error {
	rec := st.rec
	if rec.String("status") == "" {
		rec["status"] = "Draft"
	}
	if rec.String("currency") == "" {
		rec["currency"] = "BDT"
	}
	if rec.String("country_of_origin") == "" {
		rec["country_of_origin"] = "BD"
	}

	// Legacy price fields migrate softly onto the current names.
	if rec.IsNil("selling_price") && !rec.IsNil("base_price") {
		rec["selling_price"] = rec["base_price"]
	}
	if rec.IsNil("compare_price") && !rec.IsNil("discount_price") {
		rec["compare_price"] = rec["discount_price"]
	}

	st.sizeSystem = domain.NormalizeSizeSystem(rec.String("size_system"))
	rec["size_system"] = string(st.sizeSystem)
	return nil
}

func (g *Generator) stepIdentityCodes(ctx context.Context, st *genState) error {
	rec := st.rec

	if rec.String("uuid") == "" {
		rec["uuid"] = g.newUUID()
	}

	st.category = g.firstCategory(ctx, rec)

	catSeed := "GEN"
	if st.category != nil {
		if st.category.Code != "" {
			catSeed = st.category.Code
		} else if st.category.Name != "" {
			catSeed = st.category.Name
		}
	}
	cat := CategoryPrefix(catSeed)

	if !ValidProductCode(rec.String("product_code")) {
		prefix := cat + "-" + yearStamp(st.now) + "-"
		seq, err := g.sequences.NextSequence(ctx, "product_code", prefix)
		if err != nil {
			return err
		}
		rec["product_code"] = prefix + Pad4(seq)
	}

	productCode := rec.String("product_code")
	if rec.String("base_sku") == "" {
		rec["base_sku"] = cat + "-" + lastN(productCode, 4)
	}
	if rec.String("generated_sku") == "" {
		rec["generated_sku"] = rec["base_sku"]
	}

	switch {
	case IsEAN13(rec["barcode"]):
	case IsEAN12(rec["barcode"]):
		// A 12-digit input is a barcode missing its check digit, not an
		// invalid one. Complete it instead of replacing it.
		rec["barcode"] = CompleteEAN13(rec.String("barcode"))
	default:
		rec["barcode"] = MakeEAN13(rec.String("uuid") + ":" + productCode)
	}

	if rec.String("hs_code") == "" && st.category != nil && st.category.HSCode != "" {
		rec["hs_code"] = st.category.HSCode
	}
	return nil
}

func (g *Generator) stepBatchCodes(ctx context.Context, st *genState) error {
	rec := st.rec

	if rec.String("factory_batch_code") == "" {
		fact := g.factoryCode(ctx, rec)
		prefix := "FB-" + fact + "-" + dateStamp(st.now) + "-"
		seq, err := g.sequences.NextSequence(ctx, "factory_batch_code", prefix)
		if err != nil {
			return err
		}
		rec["factory_batch_code"] = prefix + Pad4(seq)
	}

	if rec.String("label_serial_code") == "" {
		prefix := "LBL-" + yearMonthStamp(st.now) + "-"
		seq, err := g.sequences.NextSequence(ctx, "label_serial_code", prefix)
		if err != nil {
			return err
		}
		rec["label_serial_code"] = prefix + Pad4(seq)
	}

	if rec.String("tag_serial_code") == "" {
		prefix := "TAG-" + yearMonthStamp(st.now) + "-"
		seq, err := g.sequences.NextSequence(ctx, "tag_serial_code", prefix)
		if err != nil {
			return err
		}
		rec["tag_serial_code"] = prefix + Pad4(seq)
	}
	return nil
}

func (g *Generator) stepVariants(_ context.Context, st *genState) error {
	if st.mode == ModeUpdate {
		return nil
	}
	rec := st.rec
	variants, ok := rec["product_variants"].([]any)
	if !ok {
		return nil
	}

	baseSKU := rec.String("base_sku")
	productUUID := rec.String("uuid")
	productCode := rec.String("product_code")
	productName := rec.String("name")

	out := make([]any, 0, len(variants))
	for vIndex, item := range variants {
		variant, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		v := Record(variant).Clone()

		color, _ := v["color"].(string)
		if color != "" {
			if s, _ := v["color_key"].(string); s == "" {
				v["color_key"] = SanitizeCode(color)
			}
		}

		colorLabel := color
		if colorLabel == "" {
			colorLabel = "COLOR"
		}

		if s, _ := v["generated_sku"].(string); s == "" {
			v["generated_sku"] = baseSKU + "-" + ColorPrefix(colorLabel)
		}

		if !IsEAN13(v["barcode"]) {
			v["barcode"] = MakeEAN13(fmt.Sprintf("%s:%s:VARIANT:%d", productUUID, productCode, vIndex))
		}

		sizeStocks, _ := v["size_stocks"].([]any)

		if len(sizeStocks) == 0 {
			if sizeList, _ := v["size"].(string); strings.TrimSpace(sizeList) != "" {
				sizeStocks = g.expandSizeList(Record(v), rec, sizeList, colorLabel, productName)
			}
		}

		seen := make(map[string]struct{})
		kept := make([]any, 0, len(sizeStocks))
		for sIndex, raw := range sizeStocks {
			entry, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s := Record(entry).Clone()

			normSize := normalizedSizeName(s)
			if normSize == "" {
				return &ValidationError{
					Fields:  []string{"size_name"},
					Message: fmt.Sprintf("variant at index %d is missing size_name for one of its size_stocks", vIndex),
				}
			}

			key := UpperString(colorLabel) + "|" + normSize
			if _, dup := seen[key]; dup {
				g.logger.Warn("duplicate size entry in variant, keeping the first occurrence",
					zap.String("product", productName),
					zap.String("color", colorLabel),
					zap.String("size", normSize))
				continue
			}
			seen[key] = struct{}{}

			sizeSKU, _ := s["generated_sku"].(string)
			if sizeSKU == "" {
				sizeSKU = SizeSKU(baseSKU, colorLabel, normSize)
			}

			if !IsEAN13(s["barcode"]) {
				s["barcode"] = MakeEAN13(fmt.Sprintf("%s:%s:%d:%d", productUUID, sizeSKU, vIndex, sIndex))
			}

			system := firstNonEmpty(
				stringAt(s, "size_system"),
				stringAt(v, "size_system"),
				string(st.sizeSystem),
			)
			breakdown := domain.ParseSizeLabel(domain.SizeSystem(system), normSize)

			s["size_name"] = normSize
			s["generated_sku"] = sizeSKU
			s["size_system"] = string(breakdown.System)
			s["primary_value"] = floatOrNil(breakdown.Primary)
			s["secondary_value"] = floatOrNil(breakdown.Secondary)
			if _, ok := s["is_active"].(bool); !ok {
				s["is_active"] = true
			}

			kept = append(kept, map[string]any(s))
		}

		v["size_stocks"] = kept
		out = append(out, map[string]any(v))
	}

	rec["product_variants"] = out
	return nil
}

// expandSizeList turns a comma-separated size string like "S, M, L" into
// size_stocks entries seeded from the product-level stock and prices.
func (g *Generator) expandSizeList(v, rec Record, sizeList, colorLabel, productName string) []any {
	seen := make(map[string]struct{})
	out := make([]any, 0, 4)
	for _, part := range strings.Split(sizeList, ",") {
		norm := strings.ToUpper(strings.TrimSpace(part))
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			g.logger.Warn("duplicate size in variant size list, ignoring repeat",
				zap.String("product", productName),
				zap.String("color", colorLabel),
				zap.String("size", norm))
			continue
		}
		seen[norm] = struct{}{}

		stock := rec["inventory"]
		if stock == nil {
			stock = 0
		}
		out = append(out, map[string]any{
			"size_name":        norm,
			"stock_quantity":   stock,
			"price":            rec["selling_price"],
			"compare_at_price": rec["compare_price"],
			"price_override":   nil,
			"is_active":        true,
		})
	}
	return out
}

func (g *Generator) stepContentDefaults(_ context.Context, st *genState) error {
	rec := st.rec

	if seo, _ := rec["seo"].([]any); len(seo) == 0 {
		rec["seo"] = []any{BuildDefaultSEO(rec, st.category)}
	}

	if rec.String("name") != "" {
		if alts, _ := rec["alt_names_entries"].([]any); len(alts) == 0 {
			rec["alt_names_entries"] = []any{map[string]any{
				"value": rec["name"],
				"lang":  "en",
			}}
		}
	}

	if translations, _ := rec["translations"].([]any); len(translations) == 0 {
		var name any
		if n := rec.String("name"); n != "" {
			name = n
		}
		var shortDesc any
		if sd := rec.String("short_description"); sd != "" {
			shortDesc = sd
		}
		var descText any
		if desc, ok := rec["description"].(string); ok {
			descText = CollapseSpaces(StripTags(desc))
		}
		rec["translations"] = []any{map[string]any{
			"locale":            "en",
			"name":              name,
			"short_description": shortDesc,
			"description":       descText,
		}}
	}
	return nil
}

func (g *Generator) stepFinalNormalize(_ context.Context, st *genState) error {
	SanitizeRelations(g.registry, st.schema, st.rec)

	anomalies := ScanRelationAnomalies(g.registry, st.schema, st.rec)
	for _, a := range anomalies {
		g.logger.Error("relation field still holds a non-scalar value after normalization",
			zap.String("product", st.rec.String("name")),
			zap.String("slug", st.rec.String("slug")),
			zap.String("product_code", st.rec.String("product_code")),
			zap.String("path", a.Path),
			zap.Any("sample", a.Sample))
	}
	return nil
}

// firstCategory resolves the first linked category. Lookup failures are
// logged and degrade to whatever inline fields the payload carried.
func (g *Generator) firstCategory(ctx context.Context, rec Record) *domain.Category {
	arr := rec.Slice("categories")
	if len(arr) == 0 {
		return nil
	}
	first := arr[0]

	id := first
	var inline map[string]any
	if m, ok := first.(map[string]any); ok {
		inline = m
		id = m["id"]
		if id == nil {
			id = m["documentId"]
		}
	}

	if id == nil {
		return inlineCategory(inline)
	}

	cat, err := g.categories.CategoryByID(ctx, id)
	if err != nil {
		g.logger.Warn("failed to load first category for code prefix",
			zap.Any("category_id", id),
			zap.Error(err))
		return inlineCategory(inline)
	}
	return cat
}

func inlineCategory(m map[string]any) *domain.Category {
	if m == nil {
		return nil
	}
	code, _ := m["code"].(string)
	if code == "" {
		code, _ = m["category_code"].(string)
	}
	name, _ := m["name"].(string)
	hs, _ := m["hs_code"].(string)
	return &domain.Category{Name: name, Code: code, HSCode: hs}
}

// factoryCode resolves the 6-char factory token for batch codes, "NA"
// when nothing is linked or the lookup fails.
func (g *Generator) factoryCode(ctx context.Context, rec Record) string {
	raw := rec["factory"]

	if m, ok := raw.(map[string]any); ok {
		if conn, ok := m["connect"].([]any); ok && len(conn) > 0 {
			raw = conn[0]
		} else if d, ok := m["data"].([]any); ok && len(d) > 0 {
			raw = d[0]
		} else if d, present := m["data"]; present && d != nil {
			raw = d
		}
	}

	id := raw
	if m, ok := raw.(map[string]any); ok {
		id = m["id"]
		if id == nil {
			id = m["documentId"]
		}
	}
	if id == nil {
		return "NA"
	}

	fac, err := g.factories.FactoryByID(ctx, id)
	if err != nil {
		g.logger.Warn("failed to load factory for batch code",
			zap.Any("factory_id", id),
			zap.Error(err))
		return "NA"
	}
	if fac == nil {
		return "NA"
	}

	seed := fac.Code
	if seed == "" {
		seed = fac.Name
	}
	code := SanitizeCode(seed)
	if len(code) > 6 {
		code = code[:6]
	}
	if code == "" {
		return "NA"
	}
	return code
}

func normalizedSizeName(s map[string]any) string {
	for _, key := range []string{"size_name", "size", "sizeName", "size_code"} {
		if v, ok := s[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.ToUpper(strings.TrimSpace(v))
		}
	}
	return ""
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
