package codegen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

type stubCategoryLookup struct {
	byID  map[string]*domain.Category
	err   error
	calls []any
}

func (s *stubCategoryLookup) CategoryByID(_ context.Context, id any) (*domain.Category, error) {
	s.calls = append(s.calls, id)
	if s.err != nil {
		return nil, s.err
	}
	return s.byID[fmt.Sprintf("%v", id)], nil
}

type stubFactoryLookup struct {
	byID map[string]*domain.Factory
	err  error
}

func (s *stubFactoryLookup) FactoryByID(_ context.Context, id any) (*domain.Factory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byID[fmt.Sprintf("%v", id)], nil
}

type stubSequenceAllocator struct {
	next  map[string]int64
	err   error
	calls []sequenceCall
}

type sequenceCall struct {
	Attr   string
	Prefix string
}

func (s *stubSequenceAllocator) NextSequence(_ context.Context, attr, prefix string) (int64, error) {
	s.calls = append(s.calls, sequenceCall{Attr: attr, Prefix: prefix})
	if s.err != nil {
		return 0, s.err
	}
	if s.next == nil {
		return 1, nil
	}
	if n, ok := s.next[attr+"|"+prefix]; ok {
		return n, nil
	}
	return 1, nil
}

func newTestGenerator(t *testing.T, cats *stubCategoryLookup, facts *stubFactoryLookup, seqs *stubSequenceAllocator) *Generator {
	t.Helper()
	if cats == nil {
		cats = &stubCategoryLookup{}
	}
	if facts == nil {
		facts = &stubFactoryLookup{}
	}
	if seqs == nil {
		seqs = &stubSequenceAllocator{}
	}
	gen, err := NewGenerator(GeneratorDeps{
		Categories: cats,
		Factories:  facts,
		Sequences:  seqs,
		Registry:   domain.CatalogRegistry(),
		Clock: func() time.Time {
			return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
		},
		NewUUID: func() string { return "fixed-uuid" },
	})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return gen
}

func TestGenerateSkipsUnnamedCreate(t *testing.T) {
	seqs := &stubSequenceAllocator{}
	gen := newTestGenerator(t, nil, nil, seqs)

	out, err := gen.Generate(context.Background(), Record{"slug": "draft"}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out.Has("product_code") || out.Has("uuid") {
		t.Fatalf("expected bare draft untouched, got %v", out)
	}
	if len(seqs.calls) != 0 {
		t.Fatalf("expected no sequence calls, got %v", seqs.calls)
	}
}

func TestGenerateFullCreate(t *testing.T) {
	cats := &stubCategoryLookup{byID: map[string]*domain.Category{
		"11": {ID: "11", Name: "T-Shirts", Code: "TEE", HSCode: "6109.10"},
	}}
	facts := &stubFactoryLookup{byID: map[string]*domain.Factory{
		"4": {ID: "4", Name: "Dhaka Apparel", Code: "DHK-01"},
	}}
	seqs := &stubSequenceAllocator{next: map[string]int64{
		"product_code|TEE-26-":              7,
		"factory_batch_code|FB-DHK01-20260830-": 2,
		"label_serial_code|LBL-2608-":       3,
		"tag_serial_code|TAG-2608-":         4,
	}}
	gen := newTestGenerator(t, cats, facts, seqs)

	in := Record{
		"name":          "Classic Crew Tee",
		"categories":    []any{map[string]any{"id": 11}},
		"factory":       map[string]any{"connect": []any{map[string]any{"id": 4}}},
		"selling_price": 990,
		"inventory":     25,
		"product_variants": []any{
			map[string]any{
				"color": "Red",
				"size":  "S, M, m, L",
			},
		},
	}

	out, err := gen.Generate(context.Background(), in, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if out["uuid"] != "fixed-uuid" {
		t.Fatalf("uuid not assigned: %v", out["uuid"])
	}
	if out["product_code"] != "TEE-26-0007" {
		t.Fatalf("unexpected product_code: %v", out["product_code"])
	}
	if out["base_sku"] != "TEE-0007" {
		t.Fatalf("unexpected base_sku: %v", out["base_sku"])
	}
	if out["generated_sku"] != "TEE-0007" {
		t.Fatalf("unexpected generated_sku: %v", out["generated_sku"])
	}
	if !IsEAN13(out["barcode"]) {
		t.Fatalf("expected generated barcode, got %v", out["barcode"])
	}
	if out["barcode"] != MakeEAN13("fixed-uuid:TEE-26-0007") {
		t.Fatalf("barcode seed mismatch: %v", out["barcode"])
	}
	if out["hs_code"] != "6109.10" {
		t.Fatalf("expected hs_code from category, got %v", out["hs_code"])
	}
	if out["factory_batch_code"] != "FB-DHK01-20260830-0002" {
		t.Fatalf("unexpected factory_batch_code: %v", out["factory_batch_code"])
	}
	if out["label_serial_code"] != "LBL-2608-0003" {
		t.Fatalf("unexpected label_serial_code: %v", out["label_serial_code"])
	}
	if out["tag_serial_code"] != "TAG-2608-0004" {
		t.Fatalf("unexpected tag_serial_code: %v", out["tag_serial_code"])
	}

	if out["status"] != "Draft" || out["currency"] != "BDT" || out["country_of_origin"] != "BD" {
		t.Fatalf("defaults not applied: %v %v %v", out["status"], out["currency"], out["country_of_origin"])
	}
	if out["size_system"] != string(domain.SizeSystemAlpha) {
		t.Fatalf("expected alpha size system default, got %v", out["size_system"])
	}

	variants := out["product_variants"].([]any)
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(variants))
	}
	v := variants[0].(map[string]any)
	if v["color_key"] != "RED" {
		t.Fatalf("unexpected color_key: %v", v["color_key"])
	}
	if v["generated_sku"] != "TEE-0007-RED" {
		t.Fatalf("unexpected variant sku: %v", v["generated_sku"])
	}
	if v["barcode"] != MakeEAN13("fixed-uuid:TEE-26-0007:VARIANT:0") {
		t.Fatalf("unexpected variant barcode: %v", v["barcode"])
	}

	sizes := v["size_stocks"].([]any)
	if len(sizes) != 3 {
		t.Fatalf("expected duplicate M dropped, got %d entries", len(sizes))
	}
	first := sizes[0].(map[string]any)
	if first["size_name"] != "S" {
		t.Fatalf("unexpected first size: %v", first["size_name"])
	}
	if first["generated_sku"] != "TEE-0007-RED-S" {
		t.Fatalf("unexpected size sku: %v", first["generated_sku"])
	}
	if first["stock_quantity"] != 25 {
		t.Fatalf("expected inventory seeded, got %v", first["stock_quantity"])
	}
	if first["price"] != 990 {
		t.Fatalf("expected selling price seeded, got %v", first["price"])
	}
	if first["is_active"] != true {
		t.Fatalf("expected size active by default, got %v", first["is_active"])
	}
	if !IsEAN13(first["barcode"]) {
		t.Fatalf("expected size barcode, got %v", first["barcode"])
	}

	// Input payload must stay untouched.
	if in.Has("product_code") {
		t.Fatalf("input record was mutated: %v", in)
	}
}

func TestGenerateKeepsExistingCodes(t *testing.T) {
	seqs := &stubSequenceAllocator{}
	gen := newTestGenerator(t, nil, nil, seqs)

	barcode := MakeEAN13("existing")
	out, err := gen.Generate(context.Background(), Record{
		"name":               "Tee",
		"product_code":       "TEE-25-0042",
		"base_sku":           "TEE-0042",
		"generated_sku":      "TEE-0042",
		"barcode":            barcode,
		"factory_batch_code": "FB-NA-20250101-0001",
		"label_serial_code":  "LBL-2501-0001",
		"tag_serial_code":    "TAG-2501-0001",
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if out["product_code"] != "TEE-25-0042" || out["barcode"] != barcode {
		t.Fatalf("existing identifiers were regenerated: %v / %v", out["product_code"], out["barcode"])
	}
	if len(seqs.calls) != 0 {
		t.Fatalf("expected no sequence calls, got %v", seqs.calls)
	}
}

func TestGenerateMalformedProductCodeRegenerated(t *testing.T) {
	seqs := &stubSequenceAllocator{}
	gen := newTestGenerator(t, nil, nil, seqs)

	out, err := gen.Generate(context.Background(), Record{
		"name":         "Tee",
		"product_code": "not-a-code",
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out["product_code"] != "GEN-26-0001" {
		t.Fatalf("expected regenerated code, got %v", out["product_code"])
	}
}

func TestGenerateCategoryLookupFailureFallsBack(t *testing.T) {
	cats := &stubCategoryLookup{err: errors.New("firestore unavailable")}
	gen := newTestGenerator(t, cats, nil, nil)

	out, err := gen.Generate(context.Background(), Record{
		"name":       "Tee",
		"categories": []any{map[string]any{"id": 11, "name": "Polo", "code": "POL"}},
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// Sanitization reduces the inline object to its id first, so the
	// failed lookup degrades all the way to the GEN prefix.
	if out["product_code"] != "GEN-26-0001" {
		t.Fatalf("unexpected product_code: %v", out["product_code"])
	}
}

func TestGenerateFactoryLookupFailureUsesNA(t *testing.T) {
	facts := &stubFactoryLookup{err: errors.New("firestore unavailable")}
	seqs := &stubSequenceAllocator{}
	gen := newTestGenerator(t, nil, facts, seqs)

	out, err := gen.Generate(context.Background(), Record{
		"name":    "Tee",
		"factory": 4,
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out["factory_batch_code"] != "FB-NA-20260830-0001" {
		t.Fatalf("unexpected factory_batch_code: %v", out["factory_batch_code"])
	}
}

func TestGenerateMissingSizeNameFails(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)

	_, err := gen.Generate(context.Background(), Record{
		"name": "Tee",
		"product_variants": []any{
			map[string]any{
				"color":       "Red",
				"size_stocks": []any{map[string]any{"stock_quantity": 4}},
			},
		},
	}, ModeCreate)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
}

func TestGenerateUpdateLeavesVariantsAlone(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)

	out, err := gen.Generate(context.Background(), Record{
		"product_variants": []any{
			map[string]any{"color": "Red", "size": "S, M"},
		},
	}, ModeUpdate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	v := out["product_variants"].([]any)[0].(map[string]any)
	if _, ok := v["size_stocks"]; ok {
		t.Fatalf("expected update to skip variant expansion, got %v", v)
	}
	if _, ok := v["generated_sku"]; ok {
		t.Fatalf("expected update to skip variant sku, got %v", v)
	}
}

func TestGenerateContentDefaults(t *testing.T) {
	cats := &stubCategoryLookup{byID: map[string]*domain.Category{
		"11": {ID: "11", Name: "T-Shirts", Code: "TEE"},
	}}
	gen := newTestGenerator(t, cats, nil, nil)

	out, err := gen.Generate(context.Background(), Record{
		"name":        "Crew Tee",
		"categories":  []any{11},
		"description": "<p>Soft cotton</p>",
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	seo := out["seo"].([]any)
	if len(seo) != 1 {
		t.Fatalf("expected one default seo entry, got %d", len(seo))
	}
	meta := seo[0].(map[string]any)
	if meta["title"] != "Crew Tee | THE DNA LAB CLOTHING" {
		t.Fatalf("unexpected seo title: %v", meta["title"])
	}

	alts := out["alt_names_entries"].([]any)
	if len(alts) != 1 || alts[0].(map[string]any)["value"] != "Crew Tee" {
		t.Fatalf("unexpected alt names: %v", alts)
	}

	translations := out["translations"].([]any)
	entry := translations[0].(map[string]any)
	if entry["locale"] != "en" || entry["name"] != "Crew Tee" {
		t.Fatalf("unexpected translation: %v", entry)
	}
	if entry["description"] != "Soft cotton" {
		t.Fatalf("expected stripped description, got %v", entry["description"])
	}
}

func TestGenerateSequenceErrorPropagates(t *testing.T) {
	seqs := &stubSequenceAllocator{err: errors.New("transaction aborted")}
	gen := newTestGenerator(t, nil, nil, seqs)

	_, err := gen.Generate(context.Background(), Record{"name": "Tee"}, ModeCreate)
	if err == nil {
		t.Fatal("expected sequence error to propagate")
	}
}

func TestGenerateEffectiveSizeSystemChain(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)

	out, err := gen.Generate(context.Background(), Record{
		"name":        "Denim",
		"size_system": "Numeric (single: collar/waist, e.g. 15.5, 32)",
		"product_variants": []any{
			map[string]any{
				"color": "Blue",
				"size_stocks": []any{
					map[string]any{"size_name": "32x30", "size_system": "Numeric (waist x length: e.g. 32x30)"},
					map[string]any{"size_name": "15.5"},
				},
			},
		},
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	sizes := out["product_variants"].([]any)[0].(map[string]any)["size_stocks"].([]any)

	waist := sizes[0].(map[string]any)
	if waist["size_system"] != string(domain.SizeSystemWaistLength) {
		t.Fatalf("expected entry-level system kept, got %v", waist["size_system"])
	}
	if waist["primary_value"] != 32.0 || waist["secondary_value"] != 30.0 {
		t.Fatalf("unexpected waist breakdown: %v / %v", waist["primary_value"], waist["secondary_value"])
	}

	collar := sizes[1].(map[string]any)
	if collar["size_system"] != string(domain.SizeSystemNumericSingle) {
		t.Fatalf("expected product-level system inherited, got %v", collar["size_system"])
	}
	if collar["primary_value"] != 15.5 {
		t.Fatalf("unexpected collar value: %v", collar["primary_value"])
	}
}

func TestGenerateCompletesTwelveDigitBarcode(t *testing.T) {
	gen := newTestGenerator(t, nil, nil, nil)

	out, err := gen.Generate(context.Background(), Record{
		"name":    "Tee",
		"barcode": "123456789012",
	}, ModeCreate)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out["barcode"] != "1234567890128" {
		t.Fatalf("expected check digit appended to the 12-digit input, got %v", out["barcode"])
	}
}
