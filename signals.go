package formz

import "github.com/zoobzio/capitan"

// Form lifecycle signals.
var (
	// FormStarted is emitted when a Form begins processing triggers.
	FormStarted = capitan.NewSignal(
		"formz.form.started",
		"Form trigger processing started",
	)

	// FormStopped is emitted when a Form stops processing triggers.
	FormStopped = capitan.NewSignal(
		"formz.form.stopped",
		"Form trigger processing stopped",
	)

	// FormStateChanged is emitted when a Form transitions between
	// validation states.
	FormStateChanged = capitan.NewSignal(
		"formz.form.state.changed",
		"Form validation state transition",
	)
)

// Trigger signals.
var (
	// ChangeReceived is emitted when a change trigger enters the pipeline.
	ChangeReceived = capitan.NewSignal(
		"formz.trigger.change",
		"Field change trigger received",
	)

	// BlurReceived is emitted when a blur trigger enters the pipeline.
	BlurReceived = capitan.NewSignal(
		"formz.trigger.blur",
		"Field blur trigger received",
	)

	// SubmitReceived is emitted when a submit trigger enters the pipeline.
	SubmitReceived = capitan.NewSignal(
		"formz.trigger.submit",
		"Submit trigger received",
	)
)

// Validation signals.
var (
	// ValidationScheduled is emitted when a same-field edit arms or resets
	// the debounce window.
	ValidationScheduled = capitan.NewSignal(
		"formz.validation.scheduled",
		"Debounce window armed for field validation",
	)

	// ValidationDiscarded is emitted when a validation result arrives after
	// being superseded by a newer event and is silently dropped.
	ValidationDiscarded = capitan.NewSignal(
		"formz.validation.discarded",
		"Stale validation result discarded",
	)

	// ValidatorFaulted is emitted when a validator fails unexpectedly
	// instead of returning an error payload.
	ValidatorFaulted = capitan.NewSignal(
		"formz.validator.faulted",
		"Validator raised an unexpected failure",
	)

	// ErrorsCommitted is emitted when a validation outcome is merged into
	// the error tree.
	ErrorsCommitted = capitan.NewSignal(
		"formz.errors.committed",
		"Validation outcome merged into error tree",
	)

	// SubmitCompleted is emitted when a submit batch has fully resolved.
	SubmitCompleted = capitan.NewSignal(
		"formz.submit.completed",
		"Submit validation batch resolved",
	)
)

// Source signals.
var (
	// SourceReloaded is emitted when the values source delivers a new tree.
	SourceReloaded = capitan.NewSignal(
		"formz.source.reloaded",
		"Form values replaced from source",
	)

	// SourceRejected is emitted when source bytes fail to decode.
	SourceRejected = capitan.NewSignal(
		"formz.source.rejected",
		"Source emission failed to decode",
	)
)
