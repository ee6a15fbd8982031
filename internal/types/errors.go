package types

import "errors"

// Sentinel errors shared across packages.
var (
	// ErrInvalidProjectID indicates a project id that is not a UUID.
	ErrInvalidProjectID = errors.New("invalid project id")

	// ErrInvalidEventID indicates a delivery id that is not a UUID.
	ErrInvalidEventID = errors.New("invalid event id")

	// ErrUnknownSystem indicates a system name outside the supported set.
	ErrUnknownSystem = errors.New("unknown system")
)
