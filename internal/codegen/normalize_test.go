package codegen

import (
	"reflect"
	"testing"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

func TestNormalizeRelationFieldShapes(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{name: "scalar", in: 7, want: 7},
		{name: "string id", in: "doc-1", want: "doc-1"},
		{name: "object with id", in: map[string]any{"id": 3}, want: 3},
		{name: "data scalar", in: map[string]any{"data": 5}, want: 5},
		{name: "data object", in: map[string]any{"data": map[string]any{"id": 9}}, want: 9},
		{
			name: "data array",
			in:   map[string]any{"data": []any{map[string]any{"id": 1}, 2}},
			want: []any{1, 2},
		},
		{
			name: "connect wrapper",
			in:   map[string]any{"connect": []any{map[string]any{"id": 4}}},
			want: []any{4},
		},
		{
			name: "set wrapper",
			in:   map[string]any{"set": []any{8, map[string]any{"id": 6}}},
			want: []any{8, 6},
		},
		{
			name: "plain array",
			in:   []any{1, map[string]any{"id": 2}, map[string]any{"data": map[string]any{"id": 3}}},
			want: []any{1, 2, 3},
		},
		{name: "empty array", in: []any{}, want: nil},
		{name: "junk object", in: map[string]any{"name": "x"}, want: nil},
		{name: "nil", in: nil, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeRelationField(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestSanitizeRelationsProductTree(t *testing.T) {
	reg := domain.CatalogRegistry()
	schema, _ := reg.ContentType(domain.UIDProduct)

	payload := map[string]any{
		"name":       "Crew Tee",
		"categories": map[string]any{"connect": []any{map[string]any{"id": 11}}},
		"factory":    map[string]any{"data": map[string]any{"id": 4}},
		"images":     []any{map[string]any{"id": 100}, 101},
		"gallery":    map[string]any{"name": "junk"},
		"product_variants": []any{
			map[string]any{
				"color": "Red",
				"image": map[string]any{"data": []any{map[string]any{"id": 55}}},
			},
		},
	}

	SanitizeRelations(reg, schema, payload)

	if !reflect.DeepEqual(payload["categories"], []any{11}) {
		t.Fatalf("categories not normalized: %#v", payload["categories"])
	}
	if payload["factory"] != 4 {
		t.Fatalf("factory not normalized: %#v", payload["factory"])
	}
	if !reflect.DeepEqual(payload["images"], []any{100, 101}) {
		t.Fatalf("images not normalized: %#v", payload["images"])
	}
	if _, ok := payload["gallery"]; ok {
		t.Fatalf("expected unusable gallery to be dropped, got %#v", payload["gallery"])
	}

	variant := payload["product_variants"].([]any)[0].(map[string]any)
	if variant["image"] != 55 {
		t.Fatalf("variant image not normalized: %#v", variant["image"])
	}
	if variant["color"] != "Red" {
		t.Fatalf("scalar attribute was touched: %#v", variant["color"])
	}
}

func TestSanitizeRelationsSingleTakesFirstOfMany(t *testing.T) {
	reg := domain.CatalogRegistry()
	schema, _ := reg.ContentType(domain.UIDProduct)

	payload := map[string]any{
		"factory": []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
	}
	SanitizeRelations(reg, schema, payload)

	if payload["factory"] != 1 {
		t.Fatalf("expected first id kept for single relation, got %#v", payload["factory"])
	}
}

func TestScanRelationAnomalies(t *testing.T) {
	reg := domain.CatalogRegistry()
	schema, _ := reg.ContentType(domain.UIDProduct)

	payload := map[string]any{
		"factory": map[string]any{"name": "still an object"},
		"product_variants": []any{
			map[string]any{
				"image": []any{map[string]any{"url": "x"}},
			},
		},
	}

	found := ScanRelationAnomalies(reg, schema, payload)
	if len(found) != 2 {
		t.Fatalf("expected 2 anomalies, got %d: %#v", len(found), found)
	}

	paths := map[string]bool{}
	for _, a := range found {
		paths[a.Path] = true
	}
	if !paths["factory"] || !paths["product_variants[0].image"] {
		t.Fatalf("unexpected anomaly paths: %#v", paths)
	}
}
