package formz

import (
	"strconv"
	"strings"
)

// Values is an arbitrarily nested tree of field values. Leaves are addressed
// by dot/bracket paths such as "address.city" or "items[0].name". Trees are
// never mutated in place; every write produces a new tree that shares
// untouched branches with the old one.
type Values map[string]any

// segment is one step of a parsed path: either a map key or a slice index.
type segment struct {
	key     string
	index   int
	isIndex bool
}

// parsePath splits a dot/bracket path into segments. An unterminated bracket
// is treated as a literal key rather than an error.
func parsePath(path string) []segment {
	var segs []segment
	i := 0
	for i < len(path) {
		switch path[i] {
		case '.':
			i++
		case '[':
			j := strings.IndexByte(path[i:], ']')
			if j < 0 {
				segs = append(segs, segment{key: path[i:]})
				return segs
			}
			body := path[i+1 : i+j]
			if idx, err := strconv.Atoi(body); err == nil && idx >= 0 {
				segs = append(segs, segment{index: idx, isIndex: true})
			} else {
				segs = append(segs, segment{key: body})
			}
			i += j + 1
		default:
			j := i
			for j < len(path) && path[j] != '.' && path[j] != '[' {
				j++
			}
			segs = append(segs, segment{key: path[i:j]})
			i = j
		}
	}
	return segs
}

// asMap unifies the two map shapes that occur in a tree: Values literals
// written by callers and plain map[string]any produced by codecs.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

// getPath returns the value at path inside root, or false if any step of the
// path does not resolve.
func getPath(root Values, path string) (any, bool) {
	cur := any(map[string]any(root))
	for _, seg := range parsePath(path) {
		if seg.isIndex {
			arr, ok := cur.([]any)
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
			continue
		}
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg.key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// setPath returns a new tree with value placed at path. Containers along the
// path are copied; missing containers are created, growing slices as needed
// to reach a bracket index.
func setPath(root Values, path string, value any) Values {
	segs := parsePath(path)
	if len(segs) == 0 {
		return root
	}
	next := setSegments(map[string]any(root), segs, value)
	if m, ok := asMap(next); ok {
		return Values(m)
	}
	return root
}

func setSegments(cur any, segs []segment, value any) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]

	if seg.isIndex {
		var arr []any
		if a, ok := cur.([]any); ok {
			arr = a
		}
		n := len(arr)
		if seg.index >= n {
			n = seg.index + 1
		}
		next := make([]any, n)
		copy(next, arr)
		var child any
		if seg.index < len(arr) {
			child = arr[seg.index]
		}
		next[seg.index] = setSegments(child, segs[1:], value)
		return next
	}

	m, _ := asMap(cur)
	next := make(Values, len(m)+1)
	for k, v := range m {
		next[k] = v
	}
	var child any
	if m != nil {
		child = m[seg.key]
	}
	next[seg.key] = setSegments(child, segs[1:], value)
	return next
}
