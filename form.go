package formz

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// DefaultDebounce is the default quiet window applied to consecutive edits
// of the same field before its validator runs.
const DefaultDebounce = 300 * time.Millisecond

// validateID names the terminal pipeline stage that invokes validators.
const validateID = "validate"

// triggerKind discriminates the events flowing through the trigger stream.
type triggerKind int

const (
	triggerChange triggerKind = iota
	triggerBlur
	triggerSubmit
)

// triggerEvent is a single trigger raised by the UI layer. All three kinds
// share one stream so that a blur raised after a change for the same path is
// also processed after it, whatever the relative cost of handling each.
type triggerEvent struct {
	Kind  triggerKind
	Path  string
	Value any
}

// Form coordinates validation for structured, nested form state. It consumes
// change, blur, and submit triggers, schedules field and form validators
// under the appropriate supersession policy, and merges their asynchronous
// results into a single consistent error tree.
//
// Validator computation runs concurrently; commits to the error tree are
// serialized and epoch-gated, so the tree always reflects the most recent
// relevant input.
type Form struct {
	submitHandler  func(context.Context, Values) error
	formValidator  FormValidator
	pipeline       pipz.Chainable[*Run]
	debounce       time.Duration
	startupTimeout time.Duration
	syncMode       bool
	clock          clockz.Clock
	codec          Codec
	source         Source
	metrics        MetricsProvider
	onStop         func(State)

	registry *registry
	store    *store
	faults   *faultRing

	triggers *stream[triggerEvent]

	state     atomic.Int32
	lastFault atomic.Pointer[error]

	mu      sync.Mutex
	started bool
	stopped bool
	runCtx  context.Context
	cancel  context.CancelFunc
	loops   sync.WaitGroup

	// Pairwise classification and per-path debounce timers for the change
	// pipeline.
	changeMu sync.Mutex
	prevPath string
	havePrev bool
	pending  map[string]clockz.Timer

	// For sync mode: source channel for manual processing.
	sourceCh <-chan []byte
}

// New creates a Form seeded with initial values.
//
// The handler, if non-nil, is the submit action: it runs after a submit
// batch resolves with a clean error tree, with IsSubmitting true for its
// duration. Pipeline options (With*) wrap every validator invocation.
// Instance configuration uses chainable methods before calling Start().
//
// Example:
//
//	form := formz.New(
//	    formz.Values{"profile": formz.Values{"age": 5}},
//	    func(ctx context.Context, values formz.Values) error {
//	        return api.SaveProfile(ctx, values)
//	    },
//	    formz.WithTimeout(2*time.Second),
//	).Debounce(300 * time.Millisecond)
func New(
	initial Values,
	handler func(ctx context.Context, values Values) error,
	opts ...Option,
) *Form {
	terminal := pipz.Apply(validateID, func(ctx context.Context, r *Run) (*Run, error) {
		result, err := r.invoke(ctx)
		if err != nil {
			return r, err
		}
		r.Result = result
		return r, nil
	})

	f := &Form{
		submitHandler: handler,
		pipeline:      buildPipeline(terminal, opts),
		debounce:      DefaultDebounce,
		clock:         clockz.RealClock,
		codec:         AutoCodec{},
		registry:      newRegistry(),
		store:         newStore(initial),
		triggers:      newStream[triggerEvent](),
		pending:       make(map[string]clockz.Timer),
	}
	f.state.Store(int32(StatePristine))

	return f
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Debounce sets the quiet window for consecutive same-field edits.
// Default: 300ms. Must be called before Start().
func (f *Form) Debounce(d time.Duration) *Form {
	f.debounce = d
	return f
}

// SyncMode enables synchronous processing for testing. Triggers are
// processed inline without debouncing or goroutines, making tests
// deterministic. Must be called before Start().
func (f *Form) SyncMode() *Form {
	f.syncMode = true
	return f
}

// Clock sets a custom clock for time operations. Use this with
// clockz.FakeClock for deterministic debounce testing.
// Must be called before Start().
func (f *Form) Clock(clock clockz.Clock) *Form {
	f.clock = clock
	return f
}

// FormValidator sets the whole-form validator, run on blur and submit.
// Must be called before Start().
func (f *Form) FormValidator(fn FormValidator) *Form {
	f.formValidator = fn
	return f
}

// Codec sets the codec for decoding source bytes into values.
// Default: AutoCodec. Must be called before Start().
func (f *Form) Codec(codec Codec) *Form {
	f.codec = codec
	return f
}

// Source sets a values source. When configured, Start seeds the value tree
// from the source's first emission and later emissions replace it.
// Must be called before Start().
func (f *Form) Source(source Source) *Form {
	f.source = source
	return f
}

// StartupTimeout sets the maximum duration to wait for the source's initial
// emission. Default: no timeout. Must be called before Start().
func (f *Form) StartupTimeout(d time.Duration) *Form {
	f.startupTimeout = d
	return f
}

// Metrics sets a metrics provider for observability integration.
// Must be called before Start().
func (f *Form) Metrics(provider MetricsProvider) *Form {
	f.metrics = provider
	return f
}

// OnStop sets a callback invoked with the final state when the form stops.
// Must be called before Start().
func (f *Form) OnStop(fn func(State)) *Form {
	f.onStop = fn
	return f
}

// FaultHistorySize sets the number of recent validator faults to retain.
// Use 0 (default) to only retain the most recent fault via LastFault().
// Must be called before Start().
func (f *Form) FaultHistorySize(n int) *Form {
	f.faults = newFaultRing(n)
	return f
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start begins processing triggers. When a source is configured, Start
// blocks until the initial values are seeded (or the startup timeout fires),
// then continues watching asynchronously.
//
// Start can only be called once.
func (f *Form) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return fmt.Errorf("form already started")
	}
	f.started = true
	runCtx, cancel := context.WithCancel(ctx)
	f.runCtx = runCtx
	f.cancel = cancel
	f.mu.Unlock()

	capitan.Emit(ctx, FormStarted, KeyDebounce.Field(f.debounce))

	if f.source != nil {
		if err := f.seedFromSource(runCtx); err != nil {
			cancel()
			f.mu.Lock()
			f.started = false
			f.runCtx = nil
			f.cancel = nil
			f.mu.Unlock()
			return err
		}
	}

	if !f.syncMode {
		events, _ := f.triggers.subscribe()
		f.loops.Add(1)
		go f.runTriggerLoop(runCtx, events)
	}

	return nil
}

// seedFromSource waits for the source's first emission and replaces the
// value tree with its decoded contents.
func (f *Form) seedFromSource(ctx context.Context) error {
	ch, err := f.source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to start source: %w", err)
	}

	startupCtx := ctx
	if f.startupTimeout > 0 {
		var cancel context.CancelFunc
		startupCtx, cancel = f.clock.WithTimeout(ctx, f.startupTimeout)
		defer cancel()
	}

	select {
	case <-startupCtx.Done():
		if f.startupTimeout > 0 && startupCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("startup timeout: source did not emit initial values within %v", f.startupTimeout)
		}
		return startupCtx.Err()
	case raw, ok := <-ch:
		if !ok {
			return fmt.Errorf("source closed before emitting initial values")
		}
		vals, err := decodeValues(f.codec, raw)
		if err != nil {
			return fmt.Errorf("failed to decode initial values: %w", err)
		}
		f.store.replaceValues(vals)
	}

	if f.syncMode {
		f.sourceCh = ch
	} else {
		go f.watchSource(ctx, ch)
	}
	return nil
}

// Stop tears the form down: trigger streams are closed, pipelines
// unsubscribed, and pending validator results can no longer mutate state.
func (f *Form) Stop() {
	f.mu.Lock()
	if !f.started || f.stopped {
		f.mu.Unlock()
		return
	}
	f.stopped = true
	cancel := f.cancel
	ctx := f.runCtx
	f.mu.Unlock()

	f.triggers.close()
	f.store.close()
	cancel()
	f.loops.Wait()

	final := f.State()
	capitan.Emit(ctx, FormStopped, KeyState.Field(final.String()))
	if f.onStop != nil {
		f.onStop(final)
	}
}

// runTriggerLoop consumes every trigger kind from the one stream, preserving
// raise order across kinds. Change and blur validations fan out to their own
// goroutines; submit batches run inline as a barrier.
func (f *Form) runTriggerLoop(ctx context.Context, events <-chan triggerEvent) {
	defer f.loops.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			switch e.Kind {
			case triggerChange:
				f.handleChange(ctx, e.Path, e.Value)
			case triggerBlur:
				f.handleBlur(ctx, e.Path, e.Value)
			case triggerSubmit:
				f.handleSubmit(ctx)
			}
		}
	}
}

// triggerContext returns the running context for inline processing, falling
// back to Background before Start.
func (f *Form) triggerContext() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runCtx != nil {
		return f.runCtx
	}
	return context.Background()
}

// -----------------------------------------------------------------------------
// Triggers
// -----------------------------------------------------------------------------

// Change raises a change trigger for path. The new value is recorded
// immediately; validation follows the debounce-and-supersede policy.
func (f *Form) Change(path string, value any) {
	if f.syncMode {
		f.handleChange(f.triggerContext(), path, value)
		return
	}
	f.triggers.emit(triggerEvent{Kind: triggerChange, Path: path, Value: value})
}

// Blur raises a blur trigger for path. The field's validator and the form
// validator run together and their outcomes merge as one commit.
func (f *Form) Blur(path string, value any) {
	if f.syncMode {
		f.handleBlur(f.triggerContext(), path, value)
		return
	}
	f.triggers.emit(triggerEvent{Kind: triggerBlur, Path: path, Value: value})
}

// Submit raises a submit trigger: every registered field validator plus the
// form validator run as one all-or-nothing batch.
func (f *Form) Submit() {
	if f.syncMode {
		f.handleSubmit(f.triggerContext())
		return
	}
	f.triggers.emit(triggerEvent{Kind: triggerSubmit})
}

// Register mounts a field: its validator participates in blur and submit
// batches and runs on its change events. Any prior entry for the path is
// overwritten and in-flight validations for it become stale.
func (f *Form) Register(path string, fn FieldValidator) {
	f.registry.register(path, fn)
	if f.store.dropField(path) {
		f.refreshState(f.triggerContext())
	}
}

// Unregister unmounts a field: its error is removed from the tree and any
// late-arriving result for the path is dropped rather than merged.
func (f *Form) Unregister(path string) {
	f.registry.unregister(path)
	if f.store.dropField(path) {
		f.refreshState(f.triggerContext())
	}
}

// SetValue programmatically updates a value without triggering validation.
func (f *Form) SetValue(path string, value any) {
	f.store.setValue(path, value)
}

// SetTouched programmatically marks a field as touched.
func (f *Form) SetTouched(path string) {
	f.store.touch(path)
}

// -----------------------------------------------------------------------------
// Read Surface
// -----------------------------------------------------------------------------

// Values returns the current value tree.
func (f *Form) Values() Values {
	return f.store.valuesTree()
}

// Value returns the value at path, or false if the path does not resolve.
func (f *Form) Value(path string) (any, bool) {
	return f.store.value(path)
}

// Errors returns the current error tree. Leaves are nil where the last
// validation reported no error.
func (f *Form) Errors() Values {
	return f.store.errorsTree()
}

// FieldError returns the error payload at path, nil when clean.
func (f *Form) FieldError(path string) any {
	return f.store.fieldError(path)
}

// Touched returns a copy of the touched map.
func (f *Form) Touched() map[string]bool {
	return f.store.touchedMap()
}

// IsTouched reports whether path has received a blur.
func (f *Form) IsTouched(path string) bool {
	return f.store.isTouched(path)
}

// FormErrors returns the form-level error messages, oldest first.
func (f *Form) FormErrors() []string {
	return f.store.formErrorList()
}

// Validating reports whether a submit batch is in flight.
func (f *Form) Validating() bool {
	v, _ := f.store.flags()
	return v
}

// Submitting reports whether the submit handler is running.
func (f *Form) Submitting() bool {
	_, s := f.store.flags()
	return s
}

// State returns the current validation state of the form.
func (f *Form) State() State {
	return State(f.state.Load())
}

// IsActive reports whether the field at path has received any trigger since
// it was registered.
func (f *Form) IsActive(path string) bool {
	return f.registry.isActive(path)
}

// LastFault returns the most recent validator fault, or nil.
func (f *Form) LastFault() error {
	ptr := f.lastFault.Load()
	if ptr == nil {
		return nil
	}
	return *ptr
}

// FaultHistory returns recent validator faults, oldest first. Returns nil
// unless enabled via FaultHistorySize.
func (f *Form) FaultHistory() []error {
	return f.faults.all()
}

// ClearFaults resets the fault history and the last fault.
func (f *Form) ClearFaults() {
	f.lastFault.Store(nil)
	f.faults.clear()
}

// -----------------------------------------------------------------------------
// Shared pipeline plumbing
// -----------------------------------------------------------------------------

// refreshState recomputes Valid/Invalid from the error tree and emits a
// state change if it moved.
func (f *Form) refreshState(ctx context.Context) {
	next := StateValid
	if f.store.hasErrors() {
		next = StateInvalid
	}
	old := State(f.state.Swap(int32(next)))
	if old == next {
		return
	}
	capitan.Emit(ctx, FormStateChanged,
		KeyOldState.Field(old.String()),
		KeyNewState.Field(next.String()),
	)
	if f.metrics != nil {
		f.metrics.OnStateChange(old, next)
	}
}

// recordFault converts an unexpected validator failure into a form-level
// error entry. The pipeline that hit it keeps processing subsequent events.
func (f *Form) recordFault(ctx context.Context, path string, err error, d time.Duration) {
	e := err
	f.lastFault.Store(&e)
	f.faults.push(err)

	msg := fmt.Sprintf("form validation failed: %v", err)
	if path != "" {
		msg = fmt.Sprintf("validation of %s failed: %v", path, err)
	}
	f.store.appendFormError(msg)

	capitan.Emit(ctx, ValidatorFaulted,
		KeyPath.Field(path),
		KeyError.Field(err.Error()),
	)
	if f.metrics != nil {
		f.metrics.OnValidatorFault(path, d)
	}
}

// discard notes a superseded validation result that was dropped on arrival.
func (f *Form) discard(ctx context.Context, path string) {
	capitan.Emit(ctx, ValidationDiscarded, KeyPath.Field(path))
	if f.metrics != nil {
		f.metrics.OnResultDiscarded(path)
	}
}

// runFieldCheck pushes one field validator invocation through the pipeline.
// Returns the normalized payload and whether the run completed without a
// fault.
func (f *Form) runFieldCheck(ctx context.Context, path string, fn FieldValidator, value any) (any, bool) {
	start := f.clock.Now()
	run := &Run{
		Path:  path,
		Value: value,
		invoke: func(ctx context.Context) (any, error) {
			return invokeField(ctx, fn, value)
		},
	}
	out, err := f.pipeline.Process(ctx, run)
	if err != nil {
		f.recordFault(ctx, path, err, f.clock.Since(start))
		return nil, false
	}
	if f.metrics != nil {
		f.metrics.OnValidatorRun(path, f.clock.Since(start))
	}
	return normalizePayload(out.Result), true
}

// runFormCheck pushes a whole-form validator invocation through the
// pipeline and expands its result mapping into a tree.
func (f *Form) runFormCheck(ctx context.Context) (Values, bool) {
	if f.formValidator == nil {
		return nil, false
	}
	values := f.store.valuesTree()
	start := f.clock.Now()
	run := &Run{
		Values: values,
		invoke: func(ctx context.Context) (any, error) {
			result, err := invokeForm(ctx, f.formValidator, values)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
	out, err := f.pipeline.Process(ctx, run)
	if err != nil {
		f.recordFault(ctx, "", err, f.clock.Since(start))
		return nil, false
	}
	if f.metrics != nil {
		f.metrics.OnValidatorRun("", f.clock.Since(start))
	}
	payload := normalizePayload(out.Result)
	if payload == nil {
		return Values{}, true
	}
	m, ok := asMap(payload)
	if !ok {
		f.recordFault(ctx, "", fmt.Errorf("form validator returned %T, want a path mapping", payload), f.clock.Since(start))
		return nil, false
	}
	return expandPaths(m), true
}

// -----------------------------------------------------------------------------
// Source processing
// -----------------------------------------------------------------------------

// watchSource replaces the value tree on each source emission.
func (f *Form) watchSource(ctx context.Context, ch <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-ch:
			if !ok {
				return
			}
			f.applySource(ctx, raw)
		}
	}
}

func (f *Form) applySource(ctx context.Context, raw []byte) {
	vals, err := decodeValues(f.codec, raw)
	if err != nil {
		capitan.Emit(ctx, SourceRejected, KeyError.Field(err.Error()))
		return
	}
	if f.store.replaceValues(vals) {
		capitan.Emit(ctx, SourceReloaded)
	}
}

// ProcessSource reads and applies the next pending source emission. This is
// only available in sync mode and is used for deterministic testing.
// Returns false if nothing is pending or the channel is closed.
func (f *Form) ProcessSource(ctx context.Context) bool {
	if !f.syncMode || f.sourceCh == nil {
		return false
	}
	select {
	case raw, ok := <-f.sourceCh:
		if !ok {
			return false
		}
		f.applySource(ctx, raw)
		return true
	default:
		return false
	}
}
