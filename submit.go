package formz

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
)

// handleSubmit processes one submit trigger as a total barrier: every
// registered field validator plus the form validator run against a snapshot
// of the values, and nothing commits until all of them have resolved. The
// whole error tree is then replaced in one step.
func (f *Form) handleSubmit(ctx context.Context) {
	submitEpoch := f.store.bumpSubmit()
	f.store.markValidating(true)

	entries := f.registry.snapshot()
	values := f.store.valuesTree()

	capitan.Emit(ctx, SubmitReceived, KeyFieldCount.Field(len(entries)))
	if f.metrics != nil {
		f.metrics.OnTriggerReceived("submit")
	}

	start := f.clock.Now()

	results := make(map[string]any, len(entries))
	faulted := 0
	var formTree Values
	var formRan bool

	if f.syncMode {
		for path, fn := range entries {
			value, _ := getPath(values, path)
			payload, ok := f.runFieldCheck(ctx, path, fn, value)
			if !ok {
				faulted++
				continue
			}
			results[path] = payload
		}
		formTree, formRan = f.runFormCheck(ctx)
		if f.formValidator != nil && !formRan {
			faulted++
		}
	} else {
		var mu sync.Mutex
		var wg sync.WaitGroup
		for path, fn := range entries {
			wg.Add(1)
			go func(path string, fn FieldValidator) {
				defer wg.Done()
				value, _ := getPath(values, path)
				payload, ok := f.runFieldCheck(ctx, path, fn, value)
				mu.Lock()
				defer mu.Unlock()
				if !ok {
					faulted++
					return
				}
				results[path] = payload
			}(path, fn)
		}
		if f.formValidator != nil {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tree, ran := f.runFormCheck(ctx)
				mu.Lock()
				defer mu.Unlock()
				formTree, formRan = tree, ran
				// A faulting form validator blocks the submit action the
				// same way a faulting field validator does.
				if !ran {
					faulted++
				}
			}()
		}
		wg.Wait()
	}

	tree := Values{}
	for path, payload := range results {
		// A field unmounted mid-batch contributes nothing.
		if !f.registry.isRegistered(path) {
			continue
		}
		tree = setPath(tree, path, payload)
	}
	if formRan {
		tree = deepMerge(tree, formTree)
	}

	committed := f.store.commitSubmit(submitEpoch, tree)
	if committed {
		capitan.Emit(ctx, ErrorsCommitted)
		f.refreshState(ctx)
	}
	f.store.markValidatingIf(submitEpoch, false)

	if f.metrics != nil {
		f.metrics.OnSubmitBatch(len(entries), f.clock.Since(start))
	}
	capitan.Emit(ctx, SubmitCompleted, KeyFieldCount.Field(len(entries)))

	if !committed || faulted > 0 || f.submitHandler == nil {
		return
	}
	if f.store.hasErrors() || f.store.currentSubmit() != submitEpoch {
		return
	}

	f.runSubmitHandler(ctx, values)
}

// runSubmitHandler invokes the submit action with Submitting raised for its
// duration. A handler failure surfaces as a form-level error, not a panic.
func (f *Form) runSubmitHandler(ctx context.Context, values Values) {
	f.store.markSubmitting(true)
	defer f.store.markSubmitting(false)

	if err := invokeSubmit(ctx, f.submitHandler, values); err != nil {
		e := err
		f.lastFault.Store(&e)
		f.faults.push(err)
		f.store.appendFormError(fmt.Sprintf("submit failed: %v", err))
		capitan.Emit(ctx, ValidatorFaulted, KeyError.Field(err.Error()))
	}
}
