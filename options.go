package formz

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option configures the validator invocation pipeline of a Form. Every
// field-level and form-level validator call flows through the pipeline, so
// options apply uniformly to all of them.
//
// Instance configuration (debounce, sync mode, codec, etc.) is handled via
// chainable methods on the Form before calling Start().
type Option func(pipz.Chainable[*Run]) pipz.Chainable[*Run]

// buildPipeline wraps the validator terminal with pipeline options.
func buildPipeline(terminal pipz.Chainable[*Run], opts []Option) pipz.Chainable[*Run] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// WithRetry wraps validator invocations with retry logic.
// Faulting validators are retried immediately up to maxAttempts times.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Run]) pipz.Chainable[*Run] {
		return pipz.NewRetry("retry", p, maxAttempts)
	}
}

// WithBackoff wraps validator invocations with exponential backoff retry
// logic: baseDelay, 2*baseDelay, 4*baseDelay, and so on.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Run]) pipz.Chainable[*Run] {
		return pipz.NewBackoff("backoff", p, maxAttempts, baseDelay)
	}
}

// WithTimeout bounds each validator invocation. An invocation that exceeds
// the duration faults with a timeout error.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Run]) pipz.Chainable[*Run] {
		return pipz.NewTimeout("timeout", p, d)
	}
}

// WithErrorHandler adds fault observation to the pipeline. Faults are passed
// to the handler for logging or alerting but still propagate. Use this for
// observability, not recovery.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Run]]) Option {
	return func(p pipz.Chainable[*Run]) pipz.Chainable[*Run] {
		return pipz.NewHandle("error-handler", p, handler)
	}
}

// WithMiddleware wraps the pipeline with a sequence of processors executing
// in order, with the validator invocation last.
//
//	formz.New(initial, handler,
//	    formz.WithMiddleware(
//	        formz.UseEffect("audit", auditFn),
//	    ),
//	    formz.WithTimeout(2*time.Second),
//	)
func WithMiddleware(processors ...pipz.Chainable[*Run]) Option {
	return func(p pipz.Chainable[*Run]) pipz.Chainable[*Run] {
		all := make([]pipz.Chainable[*Run], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence("middleware", all...)
	}
}

// UseTransform creates a middleware processor that rewrites the run and
// cannot fail.
func UseTransform(name string, fn func(context.Context, *Run) *Run) pipz.Chainable[*Run] {
	return pipz.Transform(pipz.Name(name), fn)
}

// UseApply creates a middleware processor that may rewrite the run and fail.
func UseApply(name string, fn func(context.Context, *Run) (*Run, error)) pipz.Chainable[*Run] {
	return pipz.Apply(pipz.Name(name), fn)
}

// UseEffect creates a middleware processor for side effects such as logging
// or metrics. The run passes through unchanged.
func UseEffect(name string, fn func(context.Context, *Run) error) pipz.Chainable[*Run] {
	return pipz.Effect(pipz.Name(name), fn)
}

// UseFilter wraps a processor with a condition. When the condition returns
// false, the run passes through unchanged.
func UseFilter(name string, condition func(context.Context, *Run) bool, processor pipz.Chainable[*Run]) pipz.Chainable[*Run] {
	return pipz.NewFilter(pipz.Name(name), condition, processor)
}
