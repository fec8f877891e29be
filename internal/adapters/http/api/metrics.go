// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/Raj7122/dealsense/internal/domain/analytics"
)

// CTAMetricsDependencies defines the interface for analytics reads.
type CTAMetricsDependencies interface {
	CTAMetrics(ctx context.Context) analytics.Metrics
}

// CTAMetricsHandler handles aggregate conversion metric requests.
type CTAMetricsHandler struct {
	deps CTAMetricsDependencies
}

// NewCTAMetricsHandler creates a new CTA metrics handler.
func NewCTAMetricsHandler(deps CTAMetricsDependencies) *CTAMetricsHandler {
	return &CTAMetricsHandler{deps: deps}
}

// HandleGetMetrics handles GET /cta/metrics requests.
func (h *CTAMetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.CTAMetrics(r.Context()))
}
