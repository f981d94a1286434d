package formz

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// handleChange processes one change trigger. The value is recorded
// immediately; whether validation runs now or after a quiet window depends
// on the previous event: consecutive edits to the same field debounce,
// a switch to a different field validates at once.
func (f *Form) handleChange(ctx context.Context, path string, value any) {
	capitan.Emit(ctx, ChangeReceived, KeyPath.Field(path))
	if f.metrics != nil {
		f.metrics.OnTriggerReceived("change")
	}

	f.store.setValue(path, value)
	f.registry.markActive(path)

	// Bumping the epoch here supersedes every in-flight validation for the
	// path, whether it already started or is still waiting on its timer.
	fieldEpoch := f.store.bumpField(path)
	submitEpoch := f.store.currentSubmit()

	f.changeMu.Lock()
	samePath := f.havePrev && f.prevPath == path
	f.prevPath = path
	f.havePrev = true
	if t, ok := f.pending[path]; ok {
		t.Stop()
		delete(f.pending, path)
	}
	f.changeMu.Unlock()

	if f.syncMode {
		f.validateField(ctx, path, value, fieldEpoch, submitEpoch)
		return
	}

	if !samePath {
		go f.validateField(ctx, path, value, fieldEpoch, submitEpoch)
		return
	}

	f.scheduleDebounced(ctx, path, value, fieldEpoch, submitEpoch)
}

// scheduleDebounced arms the quiet window for a repeated edit. The timer is
// re-checked against the field epoch when it fires, so a Stop that loses the
// race to a concurrent re-arm is still harmless.
func (f *Form) scheduleDebounced(ctx context.Context, path string, value any, fieldEpoch, submitEpoch uint64) {
	timer := f.clock.NewTimer(f.debounce)
	f.changeMu.Lock()
	f.pending[path] = timer
	f.changeMu.Unlock()

	capitan.Emit(ctx, ValidationScheduled,
		KeyPath.Field(path),
		KeyDebounce.Field(f.debounce),
	)

	go func() {
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C():
			f.clearPending(path, timer)
			if f.store.fieldEpoch(path) != fieldEpoch {
				f.discard(ctx, path)
				return
			}
			f.validateField(ctx, path, value, fieldEpoch, submitEpoch)
		}
	}()
}

// clearPending removes the timer entry, but only if it still owns it.
func (f *Form) clearPending(path string, timer clockz.Timer) {
	f.changeMu.Lock()
	if f.pending[path] == timer {
		delete(f.pending, path)
	}
	f.changeMu.Unlock()
}

// validateField runs the field's validator and commits the outcome unless a
// newer event for the path (or a newer submit) superseded this run.
func (f *Form) validateField(ctx context.Context, path string, value any, fieldEpoch, submitEpoch uint64) {
	fn, ok := f.registry.lookup(path)
	if !ok {
		return
	}

	payload, ran := f.runFieldCheck(ctx, path, fn, value)
	if !ran {
		return
	}

	if !f.store.commitField(path, fieldEpoch, submitEpoch, payload) {
		f.discard(ctx, path)
		return
	}
	capitan.Emit(ctx, ErrorsCommitted, KeyPath.Field(path))
	f.refreshState(ctx)
}
