package formz

import "reflect"

// normalizePayload converts empty validator results to nil so that "no error"
// has a single canonical representation in the error tree. Empty strings,
// empty maps, empty slices, and nil pointers all count as empty.
func normalizePayload(v any) any {
	if v == nil {
		return nil
	}
	switch p := v.(type) {
	case string:
		if p == "" {
			return nil
		}
		return v
	case Values:
		if len(p) == 0 {
			return nil
		}
		return v
	case map[string]any:
		if len(p) == 0 {
			return nil
		}
		return v
	case []any:
		if len(p) == 0 {
			return nil
		}
		return v
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil
		}
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return v
}

// deepMerge combines two trees, with overlay winning wherever both hold a
// value at the same path. Maps merge recursively; anything else is replaced.
// Neither input is mutated.
func deepMerge(base, overlay map[string]any) Values {
	out := make(Values, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if bm, ok := asMap(out[k]); ok {
			if om, ok := asMap(v); ok {
				out[k] = deepMerge(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// expandPaths turns a validator result mapping into a nested tree, expanding
// any dotted or bracketed keys through the path setter. Nested maps and flat
// path keys may be mixed freely.
func expandPaths(m map[string]any) Values {
	out := Values{}
	for k, v := range m {
		if child, ok := asMap(v); ok {
			v = map[string]any(expandPaths(child))
		}
		out = setPath(out, k, v)
	}
	return out
}

// treeEmpty reports whether a tree holds no error payloads: nil leaves and
// empty containers count as clean.
func treeEmpty(v any) bool {
	if v == nil {
		return true
	}
	if m, ok := asMap(v); ok {
		for _, child := range m {
			if !treeEmpty(child) {
				return false
			}
		}
		return true
	}
	if arr, ok := v.([]any); ok {
		for _, child := range arr {
			if !treeEmpty(child) {
				return false
			}
		}
		return true
	}
	return false
}
