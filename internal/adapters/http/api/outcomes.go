// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Raj7122/dealsense/internal/domain/dedupe"
	"github.com/Raj7122/dealsense/internal/domain/model"
)

// OutcomeDependencies defines the interface for outcome processing.
type OutcomeDependencies interface {
	dedupe.Deduper
	EnqueueOutcome(ctx context.Context, ev model.OutcomeEvent) bool
}

// OutcomesHandler handles trigger outcome reports.
type OutcomesHandler struct {
	deps OutcomeDependencies
}

// NewOutcomesHandler creates a new outcomes handler.
func NewOutcomesHandler(deps OutcomeDependencies) *OutcomesHandler {
	return &OutcomesHandler{deps: deps}
}

// outcomeRequest mirrors what the presentation layer reports after the
// visitor's reaction to a shown CTA is known.
type outcomeRequest struct {
	EventID         string   `json:"event_id"`
	SessionID       string   `json:"session_id"`
	TriggerType     string   `json:"trigger_type"`
	Outcome         string   `json:"outcome"`
	ConversionValue *float64 `json:"conversion_value,omitempty"`
}

func (o outcomeRequest) validate() error {
	if strings.TrimSpace(o.EventID) == "" {
		return errors.New("missing event_id")
	}
	if o.Outcome != "" && !model.Outcome(o.Outcome).Valid() {
		return errors.New("invalid outcome; must be one of shown, clicked, dismissed, converted")
	}
	if o.ConversionValue != nil && *o.ConversionValue < 0 {
		return errors.New("conversion_value must be non-negative")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostOutcome handles POST /outcomes requests.
func (h *OutcomesHandler) HandlePostOutcome(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_outcome"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req outcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ev := model.OutcomeEvent{
		EventID:         req.EventID,
		SessionID:       req.SessionID,
		TriggerType:     req.TriggerType,
		Outcome:         model.Outcome(req.Outcome),
		ConversionValue: req.ConversionValue,
	}
	if ok := h.deps.EnqueueOutcome(r.Context(), ev); !ok {
		// Rollback the seen status so the presentation layer can retry.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapOp(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
