// Package sink delivers envelopes to their single destination: the local
// message store or a downstream content service.
package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/solatis/sdlc-connector/internal/metrics"
	"github.com/solatis/sdlc-connector/internal/types"
)

// ErrDeliveryFailed wraps every error a sink returns.
var ErrDeliveryFailed = errors.New("envelope delivery failed")

// Sink accepts envelopes. Each envelope goes to exactly one sink; a
// non-nil error means the envelope was not accepted.
type Sink interface {
	Deliver(ctx context.Context, env *types.Envelope) error
}

// MessageSaver is the slice of the message store the persist sink needs.
type MessageSaver interface {
	Save(ctx context.Context, env *types.Envelope) error
}

// Persist writes envelopes to the message store.
type Persist struct {
	messages MessageSaver
}

// NewPersist creates a persist sink.
func NewPersist(messages MessageSaver) *Persist {
	return &Persist{messages: messages}
}

// Deliver saves env.
func (p *Persist) Deliver(ctx context.Context, env *types.Envelope) error {
	start := time.Now()
	err := p.messages.Save(ctx, env)
	metrics.RecordSink("persist", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// Metadata is the routing header of a forwarded message.
type Metadata struct {
	Type      string  `json:"type"`
	User      *string `json:"user"`
	Timestamp int64   `json:"timestamp"`
	ProjectID string  `json:"projectId"`
}

// Message is the downstream wire shape of one envelope. The timestamp is
// in seconds and the event id travels inside the content.
type Message struct {
	Metadata Metadata      `json:"metadata"`
	Content  types.Content `json:"content"`
}

// NewMessage converts env to its wire shape. env.Content is not modified.
func NewMessage(env *types.Envelope) Message {
	content := make(types.Content, len(env.Content)+1)
	for k, v := range env.Content {
		content[k] = v
	}
	content["eventId"] = string(env.EventID)

	return Message{
		Metadata: Metadata{
			Type:      env.Type,
			User:      env.UserID,
			Timestamp: env.Timestamp.Unix(),
			ProjectID: string(env.ProjectID),
		},
		Content: content,
	}
}

// encodeBatch renders the JSON array body the content service accepts.
func encodeBatch(env *types.Envelope) ([]byte, error) {
	return json.Marshal([]Message{NewMessage(env)})
}
