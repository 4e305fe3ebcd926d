package handlers

import (
	"net/http"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
)

type DashboardHandler struct {
	Svc *services.MetricsService
}

func NewDashboardHandler(svc *services.MetricsService) *DashboardHandler {
	return &DashboardHandler{Svc: svc}
}

// Metrics: GET /api/dashboard/metrics
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.Svc.Dashboard()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_compute_metrics", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}
