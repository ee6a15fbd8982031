package rules

import "errors"

// Catalog errors. All of them surface while a registry is being built.
var (
	// ErrEmptyEventType indicates a rule without an event type.
	ErrEmptyEventType = errors.New("rule has no event type")

	// ErrDuplicateEventType indicates two rules bound to the same event type.
	ErrDuplicateEventType = errors.New("duplicate rule for event type")
)
