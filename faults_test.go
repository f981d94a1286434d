package formz

import (
	"errors"
	"fmt"
	"testing"
)

func TestFaultRing_KeepsLastMax(t *testing.T) {
	r := newFaultRing(3)

	for i := 0; i < 5; i++ {
		r.push(fmt.Errorf("fault %d", i))
	}

	got := r.all()
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, err := range got {
		want := fmt.Sprintf("fault %d", i+2)
		if err.Error() != want {
			t.Errorf("got[%d] = %q, want %q", i, err, want)
		}
	}
}

func TestFaultRing_EmptyReturnsNil(t *testing.T) {
	r := newFaultRing(3)
	if r.all() != nil {
		t.Error("expected nil for empty ring")
	}
}

func TestFaultRing_Clear(t *testing.T) {
	r := newFaultRing(3)
	r.push(errors.New("boom"))
	r.clear()
	if r.all() != nil {
		t.Error("expected nil after clear")
	}
}

func TestFaultRing_ZeroCapacityDisabled(t *testing.T) {
	r := newFaultRing(0)
	if r != nil {
		t.Fatal("expected nil ring for zero capacity")
	}

	// Nil receivers are safe.
	r.push(errors.New("boom"))
	if r.all() != nil {
		t.Error("nil ring retains nothing")
	}
	r.clear()
}

func TestFaultRing_ResultIsCopy(t *testing.T) {
	r := newFaultRing(3)
	r.push(errors.New("a"))
	r.push(errors.New("b"))

	got := r.all()
	got[0] = errors.New("mutated")

	if r.all()[0].Error() != "a" {
		t.Error("caller mutation leaked into ring")
	}
}
