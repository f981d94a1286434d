package formz

import "sync"

// entry pairs a registered field validator with its activity flag.
type entry struct {
	validator FieldValidator
	active    bool
}

// registry tracks the validators of currently mounted fields. The key set
// changes as fields mount and unmount, so every read happens against a
// point-in-time view: lookups for batches go through snapshot.
type registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*entry)}
}

// register stores a validator for path, overwriting any prior entry. The
// field starts inactive until it receives its first trigger.
func (r *registry) register(path string, fn FieldValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[path] = &entry{validator: fn}
}

// unregister removes the entry for path entirely. In-flight validations for
// the path become stale and their results are dropped on arrival.
func (r *registry) unregister(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, path)
}

func (r *registry) isRegistered(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[path]
	return ok
}

// lookup returns the validator for path, if registered.
func (r *registry) lookup(path string) (FieldValidator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[path]
	if !ok {
		return nil, false
	}
	return e.validator, true
}

// markActive flags a field as live once it has received a trigger.
func (r *registry) markActive(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[path]; ok {
		e.active = true
	}
}

func (r *registry) isActive(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[path]
	return ok && e.active
}

// snapshot returns a copy of the current path to validator mapping, safe to
// iterate while fields register and unregister concurrently.
func (r *registry) snapshot() map[string]FieldValidator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]FieldValidator, len(r.entries))
	for path, e := range r.entries {
		out[path] = e.validator
	}
	return out
}

func (r *registry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
