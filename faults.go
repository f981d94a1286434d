package formz

import "sync"

// faultRing retains the most recent validator faults, oldest first.
// A zero capacity disables retention; LastFault still works.
type faultRing struct {
	mu   sync.RWMutex
	max  int
	list []error
}

func newFaultRing(max int) *faultRing {
	if max <= 0 {
		return nil
	}
	return &faultRing{max: max}
}

func (r *faultRing) push(err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, err)
	if len(r.list) > r.max {
		r.list = append(r.list[:0:0], r.list[len(r.list)-r.max:]...)
	}
}

func (r *faultRing) all() []error {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.list) == 0 {
		return nil
	}
	out := make([]error, len(r.list))
	copy(out, r.list)
	return out
}

func (r *faultRing) clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = nil
}
