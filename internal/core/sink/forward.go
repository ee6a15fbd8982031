package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/metrics"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Transport sends one envelope to the content service.
type Transport interface {
	Send(ctx context.Context, env *types.Envelope) error
	Name() string
}

// BreakerConfig tunes the forward sink circuit breaker.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Forward sends envelopes through a Transport behind a circuit breaker.
// While the breaker is open, Deliver fails fast without calling the
// transport. Nothing is retried here.
type Forward struct {
	transport Transport
	breaker   *gobreaker.CircuitBreaker[struct{}]
	timeout   time.Duration
}

// NewForward creates a forward sink. timeout bounds each Send.
func NewForward(transport Transport, timeout time.Duration, cfg BreakerConfig) *Forward {
	if cfg.Name == "" {
		cfg.Name = "forward-" + transport.Name()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	name := cfg.Name
	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		IsSuccessful: callerCancelled,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Forward sink circuit breaker changed state")
		},
	}

	return &Forward{
		transport: transport,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout:   timeout,
	}
}

// Deliver sends env downstream.
func (f *Forward) Deliver(ctx context.Context, env *types.Envelope) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	_, err := f.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, f.transport.Send(ctx, env)
	})
	metrics.RecordSink(f.transport.Name(), time.Since(start), err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: content service unavailable: %v", ErrDeliveryFailed, err)
		}
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	logging.Ctx(ctx).Debug().
		Str("event_id", string(env.EventID)).
		Str("transport", f.transport.Name()).
		Msg("Envelope forwarded")
	return nil
}

// callerCancelled reports whether err is nil or the caller gave up on the
// request. Neither says anything about the content service's health.
func callerCancelled(err error) bool {
	return err == nil || errors.Is(err, context.Canceled) || status.Code(err) == codes.Canceled
}

// State reports the breaker state.
func (f *Forward) State() gobreaker.State {
	return f.breaker.State()
}

// Close releases the transport's connection, if it holds one.
func (f *Forward) Close() error {
	if c, ok := f.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
