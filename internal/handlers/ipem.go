package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/services"

	"gorm.io/gorm"
)

type IpemHandler struct {
	Svc *services.IpemService
}

func NewIpemHandler(svc *services.IpemService) *IpemHandler {
	return &IpemHandler{Svc: svc}
}

// Pending: GET /api/ipem/pending
func (h *IpemHandler) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.PendingItems()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_pending_items", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Assessments: GET /api/ipem/assessments
func (h *IpemHandler) Assessments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Assessments()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_assessments", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out, "total": len(out)})
}

// CreateAssessment: POST /api/ipem/assessments. Body {"assessment_date": "2006-01-02", "notes": "..."}.
func (h *IpemHandler) CreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssessmentDate string  `json:"assessment_date"`
		Notes          *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	date, err := time.Parse("2006-01-02", req.AssessmentDate)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"assessment_date": "invalid_date"})
		return
	}
	a, err := h.Svc.CreateAssessment(date, req.Notes)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_assessment", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

// AssessmentItems: GET /api/ipem/assessments/items?id=
func (h *IpemHandler) AssessmentItems(w http.ResponseWriter, r *http.Request) {
	id, ok := uintQuery(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	items, err := h.Svc.AssessmentItems(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_assessment_items", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// AddItems: POST /api/ipem/assessments/items?id=. Body {"item_ids": [...]}.
func (h *IpemHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	id, ok := uintQuery(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var req struct {
		ItemIDs []uint `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(req.ItemIDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"item_ids": "required"})
		return
	}
	if err := h.Svc.AddItems(id, req.ItemIDs); err != nil {
		httpx.JSONError(w, http.StatusConflict, "failed_to_add_items", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RemoveItem: POST /api/ipem/assessments/items/remove?id=&item_id=
func (h *IpemHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := uintQuery(r, "id")
	itemID, ok2 := uintQuery(r, "item_id")
	if !ok || !ok2 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Svc.RemoveItem(id, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_remove_item", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func uintQuery(r *http.Request, key string) (uint, bool) {
	raw := r.URL.Query().Get(key)
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}
