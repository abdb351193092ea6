// Package handlers provides HTTP handlers for the coverage advisor.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aristath/advisor/internal/domain"
	"github.com/aristath/advisor/internal/modules/advisor"
	"github.com/rs/zerolog"
)

// Handler handles advisor HTTP requests
type Handler struct {
	pipeline *advisor.Pipeline
	compare  *advisor.CompareService
	history  domain.HistoryStore
	log      zerolog.Logger
}

// NewHandler creates a new advisor handler
func NewHandler(
	pipeline *advisor.Pipeline,
	compare *advisor.CompareService,
	history domain.HistoryStore,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		pipeline: pipeline,
		compare:  compare,
		history:  history,
		log:      log.With().Str("handler", "advisor").Logger(),
	}
}

// compareRequest is the wrapped form of the compare body. The bare-array form
// is also accepted for compatibility with simple clients.
type compareRequest struct {
	Profiles          []domain.Profile `json:"profiles"`
	NormalizeCurrency string           `json:"normalize_currency"`
}

// HandleAdvise produces an advice record for one client profile
func (h *Handler) HandleAdvise(w http.ResponseWriter, r *http.Request) {
	var raw domain.Profile
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid profile JSON: "+err.Error())
		return
	}

	record, err := h.pipeline.Run(r.Context(), raw)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}

// HandleCompare runs the pipeline across several profiles and returns a
// side-by-side comparison in input order
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid compare JSON: "+err.Error())
		return
	}

	var req compareRequest
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &req.Profiles); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid profile list: "+err.Error())
			return
		}
	} else {
		if err := json.Unmarshal(body, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid compare request: "+err.Error())
			return
		}
	}

	normalize := strings.ToUpper(strings.TrimSpace(req.NormalizeCurrency))

	entries, err := h.compare.Compare(r.Context(), req.Profiles, normalize)
	if err != nil {
		h.writePipelineError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, entries)
}

// HandleHistory returns all advice records in insertion order
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.ListAll()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// HandleClearHistory removes all advice records
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(); err != nil {
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// HandleHealth is a static liveness indicator with no core-logic dependency
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writePipelineError maps domain error kinds onto HTTP status codes:
// user-fixable input errors are 400s, collaborator failures are 502s.
func (h *Handler) writePipelineError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		h.writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	var uErr *domain.UpstreamError
	if errors.As(err, &uErr) {
		h.log.Error().Err(err).Str("stage", string(uErr.Stage)).Msg("Upstream failure")
		h.writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": uErr.Error(),
			"stage": string(uErr.Stage),
		})
		return
	}

	h.log.Error().Err(err).Msg("Unexpected pipeline failure")
	h.writeError(w, http.StatusInternalServerError, err.Error())
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
