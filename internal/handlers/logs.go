package handlers

import (
	"net/http"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
)

type LogHandler struct {
	Svc *services.AuditService
}

func NewLogHandler(svc *services.AuditService) *LogHandler {
	return &LogHandler{Svc: svc}
}

// List: GET /api/logs?order_id=. Order-scoped when order_id is present,
// otherwise the full trail, newest first.
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	var (
		logs []models.ActionLog
		err  error
	)
	if orderID != "" {
		logs, err = h.Svc.ForOrder(orderID)
	} else {
		logs, err = h.Svc.Recent(200)
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_logs", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": logs, "total": len(logs)})
}
