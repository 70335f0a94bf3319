package codegen

import (
	"fmt"

	"github.com/the-dna-lab/catalog-api/internal/domain"
)

// normalizeIDValue reduces one id-ish value to a scalar id. Accepted
// shapes: a scalar, {id}, {data: id}, {data: {id}}, {data: [id, {id}]}.
// Returns nil when nothing scalar can be extracted.
func normalizeIDValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case int, int32, int64, float64:
		return val
	case map[string]any:
		if id, ok := val["id"]; ok && isScalarID(id) {
			return id
		}
		switch d := val["data"].(type) {
		case []any:
			if len(d) == 0 {
				return nil
			}
			first := d[0]
			if isScalarID(first) {
				return first
			}
			if m, ok := first.(map[string]any); ok {
				if id, ok := m["id"]; ok && isScalarID(id) {
					return id
				}
			}
			return nil
		case nil:
			return nil
		default:
			if isScalarID(d) {
				return d
			}
			if m, ok := d.(map[string]any); ok {
				if id, ok := m["id"]; ok && isScalarID(id) {
					return id
				}
			}
		}
	}
	return nil
}

func isScalarID(v any) bool {
	switch v.(type) {
	case string, int, int32, int64, float64:
		return true
	}
	return false
}

// NormalizeRelationField turns arbitrary relation/media input into a
// scalar id, a list of ids, or nil. Wrapper forms {data: ...},
// {connect: [...]} and {set: [...]} are unwrapped first.
func NormalizeRelationField(val any) any {
	if val == nil {
		return nil
	}

	if m, ok := val.(map[string]any); ok {
		if d, ok := m["data"].([]any); ok {
			return collectIDs(d)
		}
		if d, present := m["data"]; present && d != nil {
			id := normalizeIDValue(d)
			if isScalarID(id) {
				return id
			}
			return nil
		}
		if raw, ok := m["connect"].([]any); ok {
			return collectIDs(raw)
		}
		if raw, ok := m["set"].([]any); ok {
			return collectIDs(raw)
		}
	}

	if arr, ok := val.([]any); ok {
		return collectIDs(arr)
	}

	id := normalizeIDValue(val)
	if isScalarID(id) {
		return id
	}
	return nil
}

func collectIDs(items []any) any {
	ids := make([]any, 0, len(items))
	for _, item := range items {
		if id := normalizeIDValue(item); isScalarID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// SanitizeRelations walks the payload tree guided by the schema and
// rewrites every relation/media attribute to hold only scalar ids or
// lists of scalar ids. Values that cannot be reduced are dropped.
func SanitizeRelations(reg domain.SchemaRegistry, schema domain.Schema, value map[string]any) {
	if value == nil {
		return
	}

	for key, attr := range schema.Attributes {
		fieldVal, present := value[key]
		if !present {
			continue
		}

		switch attr.Kind {
		case domain.FieldRelation, domain.FieldMedia:
			normalized := NormalizeRelationField(fieldVal)
			if attr.Many {
				ids, _ := normalized.([]any)
				if normalized != nil && ids == nil {
					ids = []any{normalized}
				}
				if len(ids) == 0 {
					delete(value, key)
				} else {
					value[key] = ids
				}
			} else {
				if ids, ok := normalized.([]any); ok {
					if len(ids) > 0 {
						normalized = ids[0]
					} else {
						normalized = nil
					}
				}
				if isScalarID(normalized) {
					value[key] = normalized
				} else {
					delete(value, key)
				}
			}

		case domain.FieldComponent:
			comp, ok := reg.Component(attr.Component)
			if !ok {
				continue
			}
			if attr.Many {
				items, _ := fieldVal.([]any)
				for _, item := range items {
					if m, ok := item.(map[string]any); ok {
						SanitizeRelations(reg, comp, m)
					}
				}
			} else if m, ok := fieldVal.(map[string]any); ok {
				SanitizeRelations(reg, comp, m)
			}

		case domain.FieldDynamicZone:
			items, _ := fieldVal.([]any)
			for _, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				uid, _ := m["__component"].(string)
				if uid == "" {
					continue
				}
				if comp, ok := reg.Component(uid); ok {
					SanitizeRelations(reg, comp, m)
				}
			}
		}
	}
}

// RelationAnomaly is a relation/media field that still holds a plain
// object after sanitization. These are logged, never fatal.
type RelationAnomaly struct {
	Path   string
	Sample any
}

// ScanRelationAnomalies re-walks the payload after all mutations and
// collects any relation/media field that still contains object values.
func ScanRelationAnomalies(reg domain.SchemaRegistry, schema domain.Schema, value map[string]any) []RelationAnomaly {
	var found []RelationAnomaly
	scanRelations(reg, schema, value, "", &found)
	return found
}

func scanRelations(reg domain.SchemaRegistry, schema domain.Schema, value map[string]any, path string, out *[]RelationAnomaly) {
	if value == nil {
		return
	}

	for key, attr := range schema.Attributes {
		fieldVal, present := value[key]
		if !present || fieldVal == nil {
			continue
		}
		fieldPath := key
		if path != "" {
			fieldPath = path + "." + key
		}

		switch attr.Kind {
		case domain.FieldRelation, domain.FieldMedia:
			if m, ok := fieldVal.(map[string]any); ok {
				*out = append(*out, RelationAnomaly{Path: fieldPath, Sample: m})
				continue
			}
			if arr, ok := fieldVal.([]any); ok {
				for _, item := range arr {
					if m, ok := item.(map[string]any); ok {
						*out = append(*out, RelationAnomaly{Path: fieldPath, Sample: m})
						break
					}
				}
			}

		case domain.FieldComponent:
			comp, ok := reg.Component(attr.Component)
			if !ok {
				continue
			}
			if attr.Many {
				items, _ := fieldVal.([]any)
				for i, item := range items {
					if m, ok := item.(map[string]any); ok {
						scanRelations(reg, comp, m, fmt.Sprintf("%s[%d]", fieldPath, i), out)
					}
				}
			} else if m, ok := fieldVal.(map[string]any); ok {
				scanRelations(reg, comp, m, fieldPath, out)
			}

		case domain.FieldDynamicZone:
			items, _ := fieldVal.([]any)
			for i, item := range items {
				m, ok := item.(map[string]any)
				if !ok {
					continue
				}
				uid, _ := m["__component"].(string)
				if uid == "" {
					continue
				}
				if comp, ok := reg.Component(uid); ok {
					scanRelations(reg, comp, m, fmt.Sprintf("%s[%d]", fieldPath, i), out)
				}
			}
		}
	}
}
