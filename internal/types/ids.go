package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseProjectID validates and converts a string to ProjectID.
// The canonical lowercase form is kept so store lookups match regardless of
// how the caller spelled the id.
func ParseProjectID(s string) (ProjectID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidProjectID, err)
	}
	return ProjectID(u.String()), nil
}

// ParseEventID validates and converts a delivery id to EventID.
func ParseEventID(s string) (EventID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEventID, err)
	}
	return EventID(u.String()), nil
}

// NewProjectID generates a random project identifier.
// Used by provisioning commands and tests; projects are owned elsewhere.
func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}

// NewEventID generates a random event identifier for tests and tooling.
// Deliveries always carry the sender's id.
func NewEventID() EventID {
	return EventID(uuid.New().String())
}

// ParseSystem accepts a case-insensitive system name.
func ParseSystem(s string) (System, error) {
	switch System(strings.ToUpper(strings.TrimSpace(s))) {
	case SystemGitHub:
		return SystemGitHub, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
}
