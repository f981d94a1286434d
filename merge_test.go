package formz

import (
	"reflect"
	"testing"
)

func TestNormalizePayload_EmptyForms(t *testing.T) {
	var nilPtr *string
	empties := []any{
		nil,
		"",
		Values{},
		map[string]any{},
		[]any{},
		map[string]string{},
		[]string{},
		nilPtr,
	}
	for _, v := range empties {
		if got := normalizePayload(v); got != nil {
			t.Errorf("normalizePayload(%#v) = %v, want nil", v, got)
		}
	}
}

func TestNormalizePayload_NonEmptyPassesThrough(t *testing.T) {
	payloads := []any{
		"required",
		Values{"min": "too short"},
		[]any{"a", "b"},
		42,
		false,
	}
	for _, v := range payloads {
		if got := normalizePayload(v); !reflect.DeepEqual(got, v) {
			t.Errorf("normalizePayload(%#v) = %v, want unchanged", v, got)
		}
	}
}

func TestDeepMerge_OverlayWins(t *testing.T) {
	base := map[string]any{
		"a": "base",
		"nested": map[string]any{
			"x": 1,
			"y": 2,
		},
	}
	overlay := map[string]any{
		"a": "overlay",
		"nested": map[string]any{
			"y": 20,
			"z": 30,
		},
	}

	out := deepMerge(base, overlay)

	if out["a"] != "overlay" {
		t.Errorf("a = %v", out["a"])
	}
	nested, _ := asMap(out["nested"])
	if nested["x"] != 1 || nested["y"] != 20 || nested["z"] != 30 {
		t.Errorf("nested = %v", nested)
	}
}

func TestDeepMerge_ScalarReplacesMap(t *testing.T) {
	base := map[string]any{"a": map[string]any{"x": 1}}
	overlay := map[string]any{"a": "flat"}

	out := deepMerge(base, overlay)
	if out["a"] != "flat" {
		t.Errorf("a = %v", out["a"])
	}
}

func TestDeepMerge_DoesNotMutateInputs(t *testing.T) {
	base := map[string]any{"n": map[string]any{"x": 1}}
	overlay := map[string]any{"n": map[string]any{"y": 2}}

	_ = deepMerge(base, overlay)

	bn, _ := asMap(base["n"])
	if len(bn) != 1 {
		t.Errorf("base mutated: %v", base)
	}
}

func TestExpandPaths_DottedKeys(t *testing.T) {
	out := expandPaths(map[string]any{
		"profile.email":     "invalid email",
		"contacts[0].phone": "required",
	})

	if v, _ := getPath(out, "profile.email"); v != "invalid email" {
		t.Errorf("profile.email = %v", v)
	}
	if v, _ := getPath(out, "contacts[0].phone"); v != "required" {
		t.Errorf("contacts[0].phone = %v", v)
	}
}

func TestExpandPaths_MixedNestedAndFlat(t *testing.T) {
	out := expandPaths(map[string]any{
		"profile": map[string]any{
			"name.first": "required",
		},
		"profile.email": "invalid",
	})

	if v, _ := getPath(out, "profile.name.first"); v != "required" {
		t.Errorf("profile.name.first = %v", v)
	}
	if v, _ := getPath(out, "profile.email"); v != "invalid" {
		t.Errorf("profile.email = %v", v)
	}
}

func TestTreeEmpty(t *testing.T) {
	clean := []any{
		nil,
		map[string]any{},
		map[string]any{"a": nil},
		Values{"a": Values{"b": nil}},
		map[string]any{"a": []any{nil, nil}},
	}
	for _, v := range clean {
		if !treeEmpty(v) {
			t.Errorf("treeEmpty(%#v) = false, want true", v)
		}
	}

	dirty := []any{
		"err",
		map[string]any{"a": "err"},
		Values{"a": Values{"b": "err"}},
		map[string]any{"a": []any{nil, "err"}},
	}
	for _, v := range dirty {
		if treeEmpty(v) {
			t.Errorf("treeEmpty(%#v) = true, want false", v)
		}
	}
}
