// internal/rules/apply.go
package rules

import (
	"github.com/solatis/sdlc-connector/internal/extract"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Classified is the outcome of applying a rule to a payload.
type Classified struct {
	Type     string        // event type, action-suffixed when the rule has a label path
	Content  types.Content // normalized mapping
	SenderID string        // external sender id, empty when absent
}

// Apply extracts the rule's fields from doc. Missing data is never an error.
func (r *CompiledRule) Apply(doc *extract.Document) Classified {
	content := extract.Extract(doc, r.paths)
	if r.array != nil {
		extract.ExtractArray(doc, *r.array, content)
	}

	senderID, _ := doc.Text(r.sender.Segments())

	return Classified{
		Type:     r.Label(doc),
		Content:  content,
		SenderID: senderID,
	}
}

// Label derives the envelope type. Without a label path, or when the payload
// lacks a scalar at it, the bare event type is used.
func (r *CompiledRule) Label(doc *extract.Document) string {
	if r.label == nil {
		return r.eventType
	}
	suffix, ok := doc.Text(r.label.Segments())
	if !ok || suffix == "" {
		return r.eventType
	}
	return r.eventType + " " + suffix
}
