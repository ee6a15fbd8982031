package pipeline

import "errors"

var (
	// ErrInvalidPayload indicates an authenticated body that is not JSON.
	ErrInvalidPayload = errors.New("error processing webhook payload")

	// ErrMissingEventID indicates a delivery without the caller-supplied event id.
	ErrMissingEventID = errors.New("delivery has no event id")

	// ErrUserLookup indicates the user mapping store failed.
	ErrUserLookup = errors.New("user lookup failed")
)
