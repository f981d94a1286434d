package formz

import "context"

// Run carries one validator invocation through the processing pipeline.
// Middleware configured via Option sees the invocation before and after the
// validator executes and may observe, transform, or fail it.
type Run struct {
	// Path is the field path under validation. Empty for form-level runs.
	Path string

	// Value is the field value being validated. Nil for form-level runs.
	Value any

	// Values is the snapshot of the full value tree. Set for form-level
	// runs only.
	Values Values

	// Result is the validator-produced error payload, nil when valid.
	// Populated by the terminal stage; middleware running after it may
	// inspect or rewrite it.
	Result any

	invoke func(ctx context.Context) (any, error)
}
