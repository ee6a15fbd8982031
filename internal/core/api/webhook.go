package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/solatis/sdlc-connector/internal/core/auth"
	"github.com/solatis/sdlc-connector/internal/core/pipeline"
	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/metrics"
	"github.com/solatis/sdlc-connector/internal/types"
)

// GitHub webhook headers.
const (
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderEvent     = "X-GitHub-Event"
	HeaderSignature = "X-Hub-Signature-256"
)

// Response bodies the sender sees.
const (
	MsgReceived        = "Webhook received"
	MsgNoValidSecret   = "No valid secret for signature"
	MsgInvalidPayload  = "Error processing webhook payload"
	MsgProcessingError = "Error processing webhook"
)

func (h *Handler) githubWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	system := string(types.SystemGitHub)

	projectID, err := types.ParseProjectID(chi.URLParam(r, "projectId"))
	if err != nil {
		metrics.RecordDelivery(system, "unknown", metrics.OutcomeInvalid)
		writeText(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	eventID, err := types.ParseEventID(r.Header.Get(HeaderDelivery))
	if err != nil {
		metrics.RecordDelivery(system, "unknown", metrics.OutcomeInvalid)
		writeText(w, http.StatusBadRequest, "Invalid "+HeaderDelivery+" header")
		return
	}
	ctx = logging.ContextWithDeliveryID(ctx, string(eventID))

	eventType := strings.TrimSpace(r.Header.Get(HeaderEvent))
	if eventType == "" {
		metrics.RecordDelivery(system, "unknown", metrics.OutcomeInvalid)
		writeText(w, http.StatusBadRequest, "Missing "+HeaderEvent+" header")
		return
	}

	// Signature is checked over these exact bytes.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logging.Ctx(ctx).Warn().Int64("limit", tooLarge.Limit).Msg("Webhook payload too large")
			metrics.RecordDelivery(system, "unknown", metrics.OutcomeInvalid)
			writeText(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to read webhook body")
		writeText(w, http.StatusBadRequest, "Unreadable body")
		return
	}

	_, err = h.processor.Process(ctx, pipeline.Delivery{
		ProjectID:  projectID,
		System:     types.SystemGitHub,
		EventID:    eventID,
		EventType:  eventType,
		Signature:  r.Header.Get(HeaderSignature),
		Body:       body,
		ReceivedAt: h.now(),
	})

	switch {
	case err == nil:
		writeText(w, http.StatusOK, MsgReceived)
	case errors.Is(err, auth.ErrNoValidSecret):
		writeText(w, http.StatusBadRequest, MsgNoValidSecret)
	case errors.Is(err, pipeline.ErrInvalidPayload):
		logging.Ctx(ctx).Warn().Err(err).Str("event", eventType).Msg("Webhook payload rejected")
		writeText(w, http.StatusInternalServerError, MsgInvalidPayload)
	default:
		logging.Ctx(ctx).Error().Err(err).Str("event", eventType).Msg("Webhook processing failed")
		writeText(w, http.StatusInternalServerError, MsgProcessingError)
	}
}
