package formz

import (
	"context"
	"testing"
)

func noopValidator(_ context.Context, _ any) (any, error) {
	return nil, nil
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := newRegistry()

	if _, ok := r.lookup("email"); ok {
		t.Error("lookup on empty registry should miss")
	}

	r.register("email", noopValidator)

	if !r.isRegistered("email") {
		t.Error("expected email registered")
	}
	if _, ok := r.lookup("email"); !ok {
		t.Error("expected lookup hit")
	}
	if r.size() != 1 {
		t.Errorf("size = %d", r.size())
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := newRegistry()
	r.register("email", noopValidator)
	r.unregister("email")

	if r.isRegistered("email") {
		t.Error("expected email unregistered")
	}
	if _, ok := r.lookup("email"); ok {
		t.Error("expected lookup miss after unregister")
	}

	// Unregistering a missing path is a no-op.
	r.unregister("missing")
}

func TestRegistry_ActiveTracking(t *testing.T) {
	r := newRegistry()
	r.register("email", noopValidator)

	if r.isActive("email") {
		t.Error("fresh field should be inactive")
	}

	r.markActive("email")
	if !r.isActive("email") {
		t.Error("expected active after trigger")
	}

	// Re-registering resets activity.
	r.register("email", noopValidator)
	if r.isActive("email") {
		t.Error("re-register should reset active flag")
	}
}

func TestRegistry_MarkActiveUnknownPath(t *testing.T) {
	r := newRegistry()
	r.markActive("ghost")
	if r.isActive("ghost") {
		t.Error("unknown path cannot be active")
	}
}

func TestRegistry_SnapshotIsolated(t *testing.T) {
	r := newRegistry()
	r.register("a", noopValidator)
	r.register("b", noopValidator)

	snap := r.snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot size = %d", len(snap))
	}

	r.unregister("a")
	if len(snap) != 2 {
		t.Error("snapshot should not track later mutations")
	}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := newRegistry()
	first := func(_ context.Context, _ any) (any, error) { return "first", nil }
	second := func(_ context.Context, _ any) (any, error) { return "second", nil }

	r.register("email", first)
	r.register("email", second)

	fn, ok := r.lookup("email")
	if !ok {
		t.Fatal("expected lookup hit")
	}
	out, _ := fn(context.Background(), nil)
	if out != "second" {
		t.Errorf("expected replacement validator, got %v", out)
	}
}
