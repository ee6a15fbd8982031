package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/solatis/sdlc-connector/internal/core/sink"
	"github.com/solatis/sdlc-connector/internal/logging"
	"github.com/solatis/sdlc-connector/internal/types"
)

// maxListLimit bounds ?limit on the messages endpoint.
const maxListLimit = 1000

// listMessages returns stored envelopes in the same shape the forward sink
// sends, newest first.
func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	projectID, err := types.ParseProjectID(chi.URLParam(r, "projectId"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "Invalid project id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxListLimit {
			writeText(w, http.StatusBadRequest, "limit must be between 1 and "+strconv.Itoa(maxListLimit))
			return
		}
	}

	envelopes, err := h.opts.Messages.List(r.Context(), projectID, limit)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to list messages")
		writeText(w, http.StatusInternalServerError, "Error listing messages")
		return
	}

	out := make([]sink.Message, 0, len(envelopes))
	for i := range envelopes {
		out = append(out, sink.NewMessage(&envelopes[i]))
	}

	body, err := json.Marshal(out)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode messages")
		writeText(w, http.StatusInternalServerError, "Error listing messages")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
