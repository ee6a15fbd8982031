package store

import "errors"

var (
	// ErrEmptySecret indicates an attempt to provision an empty webhook secret.
	ErrEmptySecret = errors.New("webhook secret must not be empty")

	// ErrEmptyUserID indicates a mapping to an empty internal user id.
	ErrEmptyUserID = errors.New("user id must not be empty")

	// ErrSecretNotFound indicates a revoke of an unknown or already revoked secret.
	ErrSecretNotFound = errors.New("webhook secret not found")
)
