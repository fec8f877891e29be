// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Raj7122/dealsense/internal/adapters/repository"
	"github.com/Raj7122/dealsense/internal/domain/action"
	"github.com/Raj7122/dealsense/internal/domain/analytics"
	"github.com/Raj7122/dealsense/internal/domain/dedupe"
	"github.com/Raj7122/dealsense/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Session lifecycle and turn processing.
	CreateSession(ctx context.Context) (string, error)
	GetSession(ctx context.Context, sessionID string) (model.BehaviorRecord, error)
	EndSession(ctx context.Context, sessionID string) error
	ProcessTurn(ctx context.Context, sessionID, visitorMessage, aiResponse string, interests []string) (model.BehaviorRecord, *model.CTATrigger, error)
	RecordVideo(ctx context.Context, sessionID string) (model.BehaviorRecord, *model.CTATrigger, error)
	Tick(ctx context.Context, sessionID string, durationSeconds int) (model.BehaviorRecord, *model.CTATrigger, error)

	// Vendor action boundary.
	DecodeAction(ctx context.Context, sessionID string, payload []byte) (action.Action, error)

	// Outcome pipeline and analytics reads.
	EnqueueOutcome(ctx context.Context, ev model.OutcomeEvent) bool
	CTAMetrics(ctx context.Context) analytics.Metrics
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	outcomesHandler  *OutcomesHandler
	metricsHandler   *CTAMetricsHandler
	actionsHandler   *ActionsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps),
		outcomesHandler:  NewOutcomesHandler(deps),
		metricsHandler:   NewCTAMetricsHandler(deps),
		actionsHandler:   NewActionsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleSessions, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSession, "session"))
	mux.HandleFunc("/outcomes", MetricsMiddleware(s.outcomesHandler.HandlePostOutcome, "outcomes"))
	mux.HandleFunc("/cta/metrics", MetricsMiddleware(s.metricsHandler.HandleGetMetrics, "cta_metrics"))
	mux.HandleFunc("/actions/decode", MetricsMiddleware(s.actionsHandler.HandleDecode, "actions_decode"))
}

// decisionResponse is the common reply for turn, video, and tick endpoints:
// the updated behavior snapshot plus the trigger decision (null when no CTA
// should be shown this turn).
type decisionResponse struct {
	SessionID string               `json:"session_id"`
	Behavior  model.BehaviorRecord `json:"behavior"`
	Trigger   *model.CTATrigger    `json:"trigger"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// wrapOp prefixes an error with the operation name for log readability.
func wrapOp(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// isNotFound translates the session store's not-found condition to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrSessionNotFound)
}
