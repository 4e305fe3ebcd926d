package handlers

import (
	"errors"
	"net/http"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/services"

	"gorm.io/gorm"
)

type RbcHandler struct {
	DB  *gorm.DB
	Svc *services.RbcService
}

func NewRbcHandler(db *gorm.DB, svc *services.RbcService) *RbcHandler {
	return &RbcHandler{DB: db, Svc: svc}
}

// Pending: GET /api/rbc/pending. RBC items whose proposal is not approved yet.
func (h *RbcHandler) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.PendingProposals()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_proposals", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// MarkSent: POST /api/rbc/proposal/send?item_id=
func (h *RbcHandler) MarkSent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.MarkProposalSent)
}

// Approve: POST /api/rbc/proposal/approve?item_id=
func (h *RbcHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Svc.ApproveProposal)
}

func (h *RbcHandler) transition(w http.ResponseWriter, r *http.Request, fn func(uint, string) error) {
	id, ok := uintQuery(r, "item_id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "missing_item_id", nil)
		return
	}
	if err := fn(id, actorEmail(h.DB, r)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_proposal", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
