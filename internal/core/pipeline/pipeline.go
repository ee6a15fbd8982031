// Package pipeline turns an authenticated webhook delivery into an envelope
// and hands it to the configured sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solatis/sdlc-connector/internal/core/auth"
	"github.com/solatis/sdlc-connector/internal/core/sink"
	"github.com/solatis/sdlc-connector/internal/extract"
	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/metrics"
	"github.com/solatis/sdlc-connector/internal/rules"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Authenticator verifies a delivery signature. Implemented by *auth.Authenticator.
type Authenticator interface {
	Authenticate(ctx context.Context, projectID types.ProjectID, system types.System, body []byte, signature string) error
}

// UserResolver maps a platform account id to an internal user id.
// A nil result with a nil error means the account is unmapped.
type UserResolver interface {
	ResolveUser(ctx context.Context, projectID types.ProjectID, system types.System, externalID string) (*string, error)
}

// Delivery is one inbound webhook request after transport validation.
type Delivery struct {
	ProjectID  types.ProjectID
	System     types.System
	EventID    types.EventID
	EventType  string
	Signature  string
	Body       []byte
	ReceivedAt time.Time
}

// Status says what happened to a delivery.
type Status int

const (
	// Delivered means an envelope reached the sink.
	Delivered Status = iota
	// Dropped means the event type has no rule; nothing was emitted.
	Dropped
)

func (s Status) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case Dropped:
		return "dropped"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the result of a successful Process call.
// Envelope is nil when the delivery was dropped.
type Outcome struct {
	Status   Status
	Envelope *types.Envelope
}

// Processor runs the authenticate, classify, extract, route sequence.
// It holds no per-request state and is safe for concurrent use.
type Processor struct {
	auth     Authenticator
	registry *rules.Registry
	users    UserResolver
	sink     sink.Sink
	now      func() time.Time
}

// NewProcessor wires a processor. All dependencies are required.
func NewProcessor(authenticator Authenticator, registry *rules.Registry, users UserResolver, s sink.Sink) (*Processor, error) {
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users cannot be nil")
	}
	if s == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}
	return &Processor{
		auth:     authenticator,
		registry: registry,
		users:    users,
		sink:     s,
		now:      time.Now,
	}, nil
}

// Process handles one delivery.
//
// Authentication happens before anything looks at the body. Unknown event
// types are dropped without error so the sender sees success. Errors wrap
// auth.ErrNoValidSecret, auth.ErrSecretLookup, ErrMissingEventID,
// ErrInvalidPayload, ErrUserLookup or sink.ErrDeliveryFailed.
func (p *Processor) Process(ctx context.Context, d Delivery) (Outcome, error) {
	system := string(d.System)
	rule, known := p.registry.Lookup(d.EventType)
	// Header values outside the catalog would be unbounded label values.
	eventLabel := d.EventType
	if !known {
		eventLabel = "unknown"
	}

	if err := p.auth.Authenticate(ctx, d.ProjectID, d.System, d.Body, d.Signature); err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, auth.ErrNoValidSecret) {
			outcome = metrics.OutcomeUnauthorized
		}
		metrics.RecordDelivery(system, eventLabel, outcome)
		return Outcome{}, err
	}

	if !known {
		logging.Ctx(ctx).Info().
			Str("event", d.EventType).
			Str("project_id", string(d.ProjectID)).
			Msg("No rule for event type - dropping delivery")
		metrics.RecordDelivery(system, eventLabel, metrics.OutcomeDropped)
		return Outcome{Status: Dropped}, nil
	}

	if d.EventID == "" {
		metrics.RecordDelivery(system, eventLabel, metrics.OutcomeInvalid)
		return Outcome{}, ErrMissingEventID
	}

	start := time.Now()
	doc, err := extract.ParseDocument(d.Body)
	if err != nil {
		metrics.RecordDelivery(system, eventLabel, metrics.OutcomeInvalid)
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	classified := rule.Apply(doc)
	metrics.RecordExtraction(system, time.Since(start))

	env, err := p.build(ctx, d, classified)
	if err != nil {
		metrics.RecordDelivery(system, eventLabel, metrics.OutcomeFailed)
		return Outcome{}, err
	}

	if err := p.sink.Deliver(ctx, env); err != nil {
		metrics.RecordDelivery(system, eventLabel, metrics.OutcomeFailed)
		return Outcome{}, err
	}

	metrics.RecordDelivery(system, eventLabel, metrics.OutcomeDelivered)
	logging.Ctx(ctx).Info().
		Str("type", env.Type).
		Str("project_id", string(env.ProjectID)).
		Bool("user_mapped", env.UserID != nil).
		Msg("Webhook delivered")
	return Outcome{Status: Delivered, Envelope: env}, nil
}

// build assembles the envelope, resolving the sender to an internal user.
func (p *Processor) build(ctx context.Context, d Delivery, c rules.Classified) (*types.Envelope, error) {
	var userID *string
	if c.SenderID != "" {
		resolved, err := p.users.ResolveUser(ctx, d.ProjectID, d.System, c.SenderID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUserLookup, err)
		}
		userID = resolved
	}

	ts := d.ReceivedAt
	if ts.IsZero() {
		ts = p.now()
	}

	return &types.Envelope{
		EventID:   d.EventID,
		Type:      c.Type,
		UserID:    userID,
		Timestamp: ts,
		ProjectID: d.ProjectID,
		Content:   c.Content,
	}, nil
}
