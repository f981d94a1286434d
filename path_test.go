package formz

import (
	"reflect"
	"testing"
)

func TestGetPath_Nested(t *testing.T) {
	root := Values{
		"profile": Values{
			"name": "ada",
			"address": map[string]any{
				"city": "london",
			},
		},
		"contacts": []any{
			map[string]any{"email": "a@example.com"},
			map[string]any{"email": "b@example.com"},
		},
	}

	v, ok := getPath(root, "profile.name")
	if !ok || v != "ada" {
		t.Errorf("profile.name = %v, %v", v, ok)
	}

	v, ok = getPath(root, "profile.address.city")
	if !ok || v != "london" {
		t.Errorf("profile.address.city = %v, %v", v, ok)
	}

	v, ok = getPath(root, "contacts[1].email")
	if !ok || v != "b@example.com" {
		t.Errorf("contacts[1].email = %v, %v", v, ok)
	}
}

func TestGetPath_Missing(t *testing.T) {
	root := Values{"a": Values{"b": 1}}

	cases := []string{"a.c", "x", "a.b.c", "a[0]"}
	for _, path := range cases {
		if _, ok := getPath(root, path); ok {
			t.Errorf("expected %q to not resolve", path)
		}
	}
}

func TestGetPath_IndexOutOfRange(t *testing.T) {
	root := Values{"items": []any{1, 2}}
	if _, ok := getPath(root, "items[5]"); ok {
		t.Error("expected out-of-range index to not resolve")
	}
}

func TestSetPath_CreatesIntermediates(t *testing.T) {
	root := Values{}
	next := setPath(root, "profile.address.city", "paris")

	v, ok := getPath(next, "profile.address.city")
	if !ok || v != "paris" {
		t.Errorf("expected paris, got %v, %v", v, ok)
	}
}

func TestSetPath_GrowsSlices(t *testing.T) {
	root := Values{}
	next := setPath(root, "items[2].name", "widget")

	v, ok := getPath(next, "items[2].name")
	if !ok || v != "widget" {
		t.Errorf("expected widget, got %v, %v", v, ok)
	}

	items, _ := getPath(next, "items")
	arr, ok := items.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("expected slice of len 3, got %T %v", items, items)
	}
	if arr[0] != nil || arr[1] != nil {
		t.Errorf("expected nil padding, got %v", arr[:2])
	}
}

func TestSetPath_DoesNotMutateOriginal(t *testing.T) {
	root := Values{
		"profile": Values{"name": "ada"},
		"items":   []any{map[string]any{"qty": 1}},
	}

	_ = setPath(root, "profile.name", "grace")
	_ = setPath(root, "items[0].qty", 9)

	if v, _ := getPath(root, "profile.name"); v != "ada" {
		t.Errorf("original mutated: profile.name = %v", v)
	}
	if v, _ := getPath(root, "items[0].qty"); v != 1 {
		t.Errorf("original mutated: items[0].qty = %v", v)
	}
}

func TestSetPath_SharesUntouchedBranches(t *testing.T) {
	shared := Values{"deep": "value"}
	root := Values{"keep": shared, "edit": Values{"x": 1}}

	next := setPath(root, "edit.x", 2)

	kept, _ := getPath(next, "keep")
	if m, ok := kept.(Values); !ok || !reflect.DeepEqual(m, shared) {
		t.Errorf("untouched branch not shared: %v", kept)
	}
}

func TestSetPath_OverwritesScalarWithContainer(t *testing.T) {
	root := Values{"a": "scalar"}
	next := setPath(root, "a.b", 1)

	v, ok := getPath(next, "a.b")
	if !ok || v != 1 {
		t.Errorf("expected 1, got %v, %v", v, ok)
	}
}

func TestParsePath_BracketEdgeCases(t *testing.T) {
	// Unterminated bracket is a literal key.
	segs := parsePath("a[1")
	if len(segs) != 2 || segs[1].isIndex || segs[1].key != "[1" {
		t.Errorf("unterminated bracket: %+v", segs)
	}

	// Non-numeric bracket body is a key.
	segs = parsePath("a[foo]")
	if len(segs) != 2 || segs[1].isIndex || segs[1].key != "foo" {
		t.Errorf("non-numeric bracket: %+v", segs)
	}

	// Negative index is a key.
	segs = parsePath("a[-1]")
	if len(segs) != 2 || segs[1].isIndex {
		t.Errorf("negative index: %+v", segs)
	}
}
