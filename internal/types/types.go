// Package types provides domain models shared across sdlc-connector components.
//
// Zero-dependency design: types.go and errors.go use only the standard library
// so the extraction engine and rule catalog can be imported without pulling in
// storage or transport deps. ID utilities in ids.go import uuid but are
// isolated for the same reason.
package types

import "time"

// ProjectID identifies the project a webhook delivery belongs to.
// Carried as a canonical UUID string.
type ProjectID string

// EventID identifies an envelope. The platform's delivery id is reused so
// downstream consumers can detect replays.
type EventID string

// System names an external platform that sends events into a project.
type System string

const (
	// SystemGitHub is the only platform with a webhook endpoint today.
	SystemGitHub System = "GITHUB"
)

// Content is the normalized nested mapping produced by extraction.
// Values are scalars, nested Content-shaped maps, or []any.
type Content = map[string]any

// Envelope is the unit handed to exactly one sink.
// Immutable once built; UserID is nil when the sender is unmapped.
type Envelope struct {
	EventID   EventID
	Type      string
	UserID    *string
	Timestamp time.Time
	ProjectID ProjectID
	Content   Content
}

// Resource limits enforced at the edges of the pipeline.
const (
	// MaxPathDepth bounds the number of segments in a path expression.
	// GitHub payloads rarely nest deeper than six levels.
	MaxPathDepth = 16

	// MaxPayloadSize is the default body limit for webhook deliveries.
	// GitHub caps webhook payloads at 25MB.
	MaxPayloadSize = 25 * 1024 * 1024
)
