// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Raj7122/dealsense/internal/domain/model"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (string, error)
	GetSession(ctx context.Context, sessionID string) (model.BehaviorRecord, error)
	EndSession(ctx context.Context, sessionID string) error
	ProcessTurn(ctx context.Context, sessionID, visitorMessage, aiResponse string, interests []string) (model.BehaviorRecord, *model.CTATrigger, error)
	RecordVideo(ctx context.Context, sessionID string) (model.BehaviorRecord, *model.CTATrigger, error)
	Tick(ctx context.Context, sessionID string, durationSeconds int) (model.BehaviorRecord, *model.CTATrigger, error)
}

// SessionsHandler handles session lifecycle and turn requests.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// turnRequest carries one visitor utterance, the avatar's reply text, and
// optional topic tags from the caller's conversation-analysis layer.
type turnRequest struct {
	VisitorMessage string   `json:"visitor_message"`
	AIResponse     string   `json:"ai_response"`
	Interests      []string `json:"interests,omitempty"`
}

// tickRequest carries the caller-maintained session duration.
type tickRequest struct {
	SessionDurationSeconds int `json:"session_duration_seconds"`
}

type sessionCreatedResponse struct {
	SessionID string `json:"session_id"`
}

// HandleSessions handles POST /sessions requests.
func (h *SessionsHandler) HandleSessions(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sessionCreatedResponse{SessionID: id})
}

// HandleSession routes /sessions/{id} and its sub-resources:
//
//	GET    /sessions/{id}          -> behavior snapshot
//	DELETE /sessions/{id}          -> end session
//	POST   /sessions/{id}/turns    -> apply a conversational turn
//	POST   /sessions/{id}/videos   -> record a video playback
//	POST   /sessions/{id}/ticks    -> update session duration
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	sessionID, sub, _ := strings.Cut(path, "/")
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.handleGet(w, r, sessionID)
	case sub == "" && r.Method == http.MethodDelete:
		h.handleEnd(w, r, sessionID)
	case sub == "turns" && r.Method == http.MethodPost:
		h.handleTurn(w, r, sessionID)
	case sub == "videos" && r.Method == http.MethodPost:
		h.handleVideo(w, r, sessionID)
	case sub == "ticks" && r.Method == http.MethodPost:
		h.handleTick(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handleGet(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.get_session"
	rec, err := h.deps.GetSession(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *SessionsHandler) handleEnd(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.end_session"
	if err := h.deps.EndSession(r.Context(), sessionID); err != nil {
		h.writeSessionError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) handleTurn(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_turn"
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}
	if strings.TrimSpace(req.VisitorMessage) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, errors.New("missing visitor_message")))
		return
	}
	rec, trig, err := h.deps.ProcessTurn(r.Context(), sessionID, req.VisitorMessage, req.AIResponse, req.Interests)
	if err != nil {
		h.writeSessionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionResponse{SessionID: sessionID, Behavior: rec, Trigger: trig})
}

func (h *SessionsHandler) handleVideo(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_video"
	rec, trig, err := h.deps.RecordVideo(r.Context(), sessionID)
	if err != nil {
		h.writeSessionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionResponse{SessionID: sessionID, Behavior: rec, Trigger: trig})
}

func (h *SessionsHandler) handleTick(w http.ResponseWriter, r *http.Request, sessionID string) {
	const op = "api.post_tick"
	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, err))
		return
	}
	if req.SessionDurationSeconds < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", wrapOp(op, errors.New("session_duration_seconds must be non-negative")))
		return
	}
	rec, trig, err := h.deps.Tick(r.Context(), sessionID, req.SessionDurationSeconds)
	if err != nil {
		h.writeSessionError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, decisionResponse{SessionID: sessionID, Behavior: rec, Trigger: trig})
}

func (h *SessionsHandler) writeSessionError(w http.ResponseWriter, op string, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", wrapOp(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", wrapOp(op, err))
}
