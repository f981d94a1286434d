// Package formz coordinates validation for structured, nested form state.
//
// A Form owns a value tree, an error tree, and a registry of per-field
// validators. UI layers raise change, blur, and submit triggers against it;
// formz decides which validators run, when they run, and which of their
// asynchronous results are still worth keeping:
//
//   - Change triggers record the value immediately and validate the field
//     under a debounce-and-supersede policy: consecutive edits to the same
//     field wait out a quiet window, switching fields validates at once,
//     and a result that arrives after a newer edit is dropped.
//   - Blur triggers mark the field touched, then run its validator together
//     with the whole-form validator, merging both outcomes as one commit.
//   - Submit triggers run every registered validator as a total barrier and
//     replace the entire error tree in a single step, invoking the submit
//     handler only when the tree comes back clean.
//
// Values and errors live in arbitrarily nested trees addressed by dotted
// paths with bracket indices, e.g. "contacts[2].email".
//
// Validators are plain functions returning an error payload (nil means
// clean); Rules adapts go-playground/validator tag strings into one.
// Validator invocation flows through a pipz pipeline, so retries, timeouts,
// and custom middleware attach via options at construction.
//
// Forms emit capitan signals at every decision point and accept a
// MetricsProvider, keeping observability external to the coordination
// logic. For deterministic tests, SyncMode processes triggers inline and
// Clock accepts a clockz fake for driving debounce windows by hand.
package formz
