package formz

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus,
// StatsD, etc. Implement this interface to receive callbacks on key form
// events.
type MetricsProvider interface {
	// OnStateChange is called when the form transitions between states.
	OnStateChange(from, to State)

	// OnTriggerReceived is called for each trigger entering a pipeline.
	// Kind is "change", "blur", or "submit".
	OnTriggerReceived(kind string)

	// OnValidatorRun is called when a validator completes and its result
	// is committed. Path is empty for form-level validators.
	OnValidatorRun(path string, duration time.Duration)

	// OnValidatorFault is called when a validator fails unexpectedly.
	OnValidatorFault(path string, duration time.Duration)

	// OnResultDiscarded is called when a superseded validation result is
	// dropped instead of committed.
	OnResultDiscarded(path string)

	// OnSubmitBatch is called when a submit batch resolves. Fields is the
	// number of field validators in the batch.
	OnSubmitBatch(fields int, duration time.Duration)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Embed it to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                  {}
func (NoOpMetricsProvider) OnTriggerReceived(_ string)                {}
func (NoOpMetricsProvider) OnValidatorRun(_ string, _ time.Duration)  {}
func (NoOpMetricsProvider) OnValidatorFault(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnResultDiscarded(_ string)                {}
func (NoOpMetricsProvider) OnSubmitBatch(_ int, _ time.Duration)      {}
