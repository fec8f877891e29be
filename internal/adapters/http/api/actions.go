// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Raj7122/dealsense/internal/domain/action"
)

// Cap on vendor action payloads.
const maxActionPayloadBytes = 64 * 1024

// ActionDependencies defines the interface for vendor action decoding.
type ActionDependencies interface {
	DecodeAction(ctx context.Context, sessionID string, payload []byte) (action.Action, error)
}

// ActionsHandler decodes conversational-AI vendor directives at the
// boundary. Unknown action names are rejected, never silently dropped.
type ActionsHandler struct {
	deps ActionDependencies
}

// NewActionsHandler creates a new actions handler.
func NewActionsHandler(deps ActionDependencies) *ActionsHandler {
	return &ActionsHandler{deps: deps}
}

// HandleDecode handles POST /actions/decode?session_id=... requests. The
// body is the vendor's raw action JSON.
func (h *ActionsHandler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	const op = "api.decode_action"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxActionPayloadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	a, err := h.deps.DecodeAction(r.Context(), sessionID, payload)
	if err != nil {
		if errors.Is(err, action.ErrUnknownAction) {
			writeError(w, http.StatusBadRequest, "unknown_action", wrapOp(op, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}
	writeJSON(w, http.StatusOK, a)
}
