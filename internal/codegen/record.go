package codegen

// Record is a loosely typed product payload as it arrives from the admin
// surface. The generator mutates copies of it, never the caller's map.
type Record map[string]any

// Clone deep-copies the record. Nested maps and slices are copied too so
// pipeline steps can mutate their snapshot freely.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Record:
		return map[string]any(val.Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// String returns the value under key coerced to a string, or "" when the
// key is absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Has reports whether the key is present at all, even with a nil value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Slice returns the value under key when it is a []any.
func (r Record) Slice(key string) []any {
	s, _ := r[key].([]any)
	return s
}

// Map returns the value under key when it is a map.
func (r Record) Map(key string) map[string]any {
	m, _ := r[key].(map[string]any)
	return m
}

// IsNil reports whether the key is absent or holds a nil value.
func (r Record) IsNil(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}
