// Package api exposes the webhook endpoint and its companions over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solatis/sdlc-connector/internal/core/pipeline"
	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/types"
)

// Processor handles one webhook delivery. Implemented by *pipeline.Processor.
type Processor interface {
	Process(ctx context.Context, d pipeline.Delivery) (pipeline.Outcome, error)
}

// MessageLister reads stored envelopes. Only available in persist mode.
type MessageLister interface {
	List(ctx context.Context, projectID types.ProjectID, limit int) ([]types.Envelope, error)
}

// Pinger checks a backing store during health checks.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the router. Zero values disable the optional parts.
type Options struct {
	MaxPayloadBytes    int64
	RateLimitPerMinute int
	Messages           MessageLister
	Health             Pinger
}

// Handler serves the connector's HTTP API.
type Handler struct {
	processor Processor
	opts      Options
	now       func() time.Time
}

// NewHandler creates a handler around processor.
func NewHandler(processor Processor, opts Options) (*Handler, error) {
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if opts.MaxPayloadBytes <= 0 {
		opts.MaxPayloadBytes = types.MaxPayloadSize
	}
	return &Handler{processor: processor, opts: opts, now: time.Now}, nil
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestLogging)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/projects/{projectId}", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.opts.RateLimitPerMinute > 0 {
				r.Use(httprate.Limit(
					h.opts.RateLimitPerMinute,
					time.Minute,
					httprate.WithKeyFuncs(projectKey),
				))
			}
			r.Post("/webhook/github", h.githubWebhook)
		})

		if h.opts.Messages != nil {
			r.Get("/messages", h.listMessages)
		}
	})

	return r
}

// projectKey rate-limits per project. GitHub delivers from a shared pool of
// addresses, so per-IP limits would couple unrelated projects.
func projectKey(r *http.Request) (string, error) {
	return chi.URLParam(r, "projectId"), nil
}

// requestLogging copies chi's request id into the logging context.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := chimiddleware.GetReqID(ctx); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		if err := h.opts.Health.PingContext(r.Context()); err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Health check failed")
			writeText(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeText(w, http.StatusOK, "ok")
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
