package formz

import "github.com/zoobzio/capitan"

// Field keys for Form events.
var (
	// KeyPath is the field path an event relates to.
	KeyPath = capitan.NewStringKey("path")

	// KeyTrigger is the trigger kind: change, blur, or submit.
	KeyTrigger = capitan.NewStringKey("trigger")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyState is the current state of the Form.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState is the previous state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState is the new state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyDebounce is the configured debounce duration.
	KeyDebounce = capitan.NewDurationKey("debounce")

	// KeyFieldCount is the number of registered fields in a submit batch.
	KeyFieldCount = capitan.NewIntKey("field_count")
)
