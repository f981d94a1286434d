package formz

import "sync"

// store is the authoritative holder of form state: the value tree, the error
// tree, the touched map, form-level errors, and the pending flags. Pipelines
// compute concurrently but commit here one at a time; a commit either lands
// whole or not at all.
//
// Supersession is enforced with epochs. Every change, blur, register, and
// unregister for a path bumps that path's epoch; every submit bumps the
// submit epoch. A pipeline captures the epochs it runs under at dispatch time
// and its commit is dropped if any of them have moved on — the cooperative,
// result-discarding form of cancellation.
type store struct {
	mu     sync.Mutex
	closed bool

	values     Values
	errors     Values
	touched    map[string]bool
	formErrors []string

	validating bool
	submitting bool

	fieldEpochs map[string]uint64
	submitEpoch uint64
}

func newStore(initial Values) *store {
	if initial == nil {
		initial = Values{}
	}
	return &store{
		values:      initial,
		errors:      Values{},
		touched:     make(map[string]bool),
		fieldEpochs: make(map[string]uint64),
	}
}

// close drops all future commits. Called on teardown so that pending
// validator results can no longer mutate state.
func (s *store) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// --- values ---

func (s *store) valuesTree() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values
}

func (s *store) value(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return getPath(s.values, path)
}

func (s *store) setValue(path string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.values = setPath(s.values, path, v)
	return true
}

func (s *store) replaceValues(v Values) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if v == nil {
		v = Values{}
	}
	s.values = v
	return true
}

// --- errors ---

func (s *store) errorsTree() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

func (s *store) fieldError(path string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, _ := getPath(s.errors, path)
	return v
}

func (s *store) hasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !treeEmpty(map[string]any(s.errors))
}

// --- touched ---

func (s *store) touch(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touched[path] = true
	return true
}

func (s *store) isTouched(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[path]
}

func (s *store) touchedMap() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.touched))
	for k, v := range s.touched {
		out[k] = v
	}
	return out
}

// --- form-level errors ---

func (s *store) appendFormError(msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.formErrors = append(s.formErrors, msg)
	return true
}

func (s *store) formErrorList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.formErrors) == 0 {
		return nil
	}
	out := make([]string, len(s.formErrors))
	copy(out, s.formErrors)
	return out
}

// --- pending flags ---

func (s *store) markValidating(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.validating = v
}

// markValidatingIf clears or sets the validating flag only when epoch still
// identifies the latest submit, so a superseded batch cannot clobber the flag
// of the batch that replaced it.
func (s *store) markValidatingIf(epoch uint64, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.submitEpoch != epoch {
		return
	}
	s.validating = v
}

func (s *store) markSubmitting(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.submitting = v
}

func (s *store) flags() (validating, submitting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validating, s.submitting
}

// --- epochs ---

func (s *store) bumpField(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldEpochs[path]++
	return s.fieldEpochs[path]
}

func (s *store) fieldEpoch(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldEpochs[path]
}

func (s *store) bumpSubmit() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitEpoch++
	return s.submitEpoch
}

func (s *store) currentSubmit() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitEpoch
}

// --- commits ---

// commitField merges one field validation result at its path. Returns false
// if the result is stale: the store closed, a newer event for the path
// arrived, or a submit started since dispatch.
func (s *store) commitField(path string, fieldEpoch, submitEpoch uint64, payload any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.fieldEpochs[path] != fieldEpoch || s.submitEpoch != submitEpoch {
		return false
	}
	s.errors = setPath(s.errors, path, payload)
	return true
}

// commitBlur merges a combined blur outcome: the field result at its path
// plus the form-level tree overlaid on top. Gated the same way as
// commitField; a submit that started since dispatch wins.
func (s *store) commitBlur(path string, fieldEpoch, submitEpoch uint64, fieldPayload any, fieldRan bool, formTree Values, formRan bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.fieldEpochs[path] != fieldEpoch || s.submitEpoch != submitEpoch {
		return false
	}
	if fieldRan {
		s.errors = setPath(s.errors, path, fieldPayload)
	}
	if formRan {
		s.errors = deepMerge(s.errors, formTree)
	}
	return true
}

// commitSubmit replaces the whole error tree with a batch result. Only the
// latest submit may land.
func (s *store) commitSubmit(submitEpoch uint64, tree Values) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.submitEpoch != submitEpoch {
		return false
	}
	if tree == nil {
		tree = Values{}
	}
	s.errors = tree
	return true
}

// dropField invalidates any in-flight validation for a field and removes its
// error, reporting whether an error payload was actually present. Called on
// unregister and on register-overwrite.
func (s *store) dropField(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.fieldEpochs[path]++
	prev, ok := getPath(s.errors, path)
	if !ok || treeEmpty(prev) {
		return false
	}
	s.errors = setPath(s.errors, path, nil)
	return true
}
