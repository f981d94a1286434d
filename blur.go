package formz

import (
	"context"
	"sync"

	"github.com/zoobzio/capitan"
)

// handleBlur processes one blur trigger. The field is marked touched at
// receipt, then the field's validator and the form validator run together;
// both outcomes land in the error tree as a single commit, form-level keys
// overriding field-level ones where they overlap.
func (f *Form) handleBlur(ctx context.Context, path string, value any) {
	capitan.Emit(ctx, BlurReceived, KeyPath.Field(path))
	if f.metrics != nil {
		f.metrics.OnTriggerReceived("blur")
	}

	f.registry.markActive(path)
	f.store.touch(path)

	// Blur supersedes any pending or in-flight change validation for the
	// path, including one still sitting in its debounce window.
	fieldEpoch := f.store.bumpField(path)
	submitEpoch := f.store.currentSubmit()

	f.changeMu.Lock()
	if t, ok := f.pending[path]; ok {
		t.Stop()
		delete(f.pending, path)
	}
	f.changeMu.Unlock()

	fn, registered := f.registry.lookup(path)

	if f.syncMode {
		f.validateBlur(ctx, path, value, fn, registered, fieldEpoch, submitEpoch)
		return
	}
	go f.validateBlur(ctx, path, value, fn, registered, fieldEpoch, submitEpoch)
}

func (f *Form) validateBlur(ctx context.Context, path string, value any, fn FieldValidator, registered bool, fieldEpoch, submitEpoch uint64) {
	var (
		fieldPayload any
		fieldRan     bool
		formTree     Values
		formRan      bool
	)

	if f.syncMode {
		if registered {
			fieldPayload, fieldRan = f.runFieldCheck(ctx, path, fn, value)
		}
		formTree, formRan = f.runFormCheck(ctx)
	} else {
		var wg sync.WaitGroup
		if registered {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fieldPayload, fieldRan = f.runFieldCheck(ctx, path, fn, value)
			}()
		}
		if f.formValidator != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				formTree, formRan = f.runFormCheck(ctx)
			}()
		}
		wg.Wait()
	}

	if !fieldRan && !formRan {
		return
	}

	if !f.store.commitBlur(path, fieldEpoch, submitEpoch, fieldPayload, fieldRan, formTree, formRan) {
		f.discard(ctx, path)
		return
	}
	capitan.Emit(ctx, ErrorsCommitted, KeyPath.Field(path))
	f.refreshState(ctx)
}
