package auth

import "errors"

// Authentication errors. ErrNoValidSecret maps to 400; ErrSecretLookup means
// the token store failed and maps to 500.
var (
	ErrNoValidSecret = errors.New("no valid secret for signature")
	ErrSecretLookup  = errors.New("secret lookup failed")
)
