package formz

// State represents the validation state of a Form.
type State int32

const (
	// StatePristine indicates no validation has run yet.
	StatePristine State = iota

	// StateValid indicates the last committed error tree is empty.
	StateValid

	// StateInvalid indicates the last committed error tree holds at least
	// one field or form-level error.
	StateInvalid
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePristine:
		return "pristine"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}
