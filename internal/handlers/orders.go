package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/middleware"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
	"github.com/codebyjv/PortaldeRastreio/internal/validation"

	"gorm.io/gorm"
)

type OrderHandler struct {
	DB  *gorm.DB
	Svc *services.OrderService
}

func NewOrderHandler(db *gorm.DB, svc *services.OrderService) *OrderHandler {
	return &OrderHandler{DB: db, Svc: svc}
}

// List: GET /api/orders. Admin listing, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.List()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": len(orders)})
}

// Lookup: GET /api/orders/lookup?cnpj=. Public customer lookup. The tax id is
// normalized to digits; expired orders are excluded.
func (h *OrderHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("cnpj")
	cnpj := validation.NormalizeCNPJ(raw)
	v := validation.Violations{}
	validation.CNPJ("cnpj", cnpj, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	orders, err := h.Svc.ByCNPJ(cnpj, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_lookup_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": len(orders)})
}

type orderItemReq struct {
	ProductDescription string  `json:"product_description"`
	Quantity           *int    `json:"quantity"`
	Capacity           *string `json:"capacity"`
	CertificateType    *string `json:"certificate_type"`
}

type createOrderReq struct {
	OrderNumber      string         `json:"order_number"`
	CustomerName     string         `json:"customer_name"`
	CNPJ             string         `json:"cnpj"`
	Status           string         `json:"status"`
	OrderDate        string         `json:"order_date"`
	ExpectedDelivery string         `json:"expected_delivery"`
	TotalValue       float64        `json:"total_value"`
	Items            []orderItemReq `json:"items"`
}

// Create: POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CNPJ = validation.NormalizeCNPJ(req.CNPJ)

	v := validation.Violations{}
	validation.Required("order_number", req.OrderNumber, v)
	validation.Required("customer_name", req.CustomerName, v)
	validation.NonNegativeFloat("total_value", req.TotalValue, v)
	if req.Status != "" {
		validation.OneOf("status", req.Status, models.OrderStatuses, v)
	}
	if req.CNPJ != "" {
		validation.CNPJ("cnpj", req.CNPJ, v)
	}
	for _, it := range req.Items {
		if ct := it.CertificateType; ct != nil {
			validation.OneOf("certificate_type", *ct, []string{models.CertificateIPEM, models.CertificateRBC}, v)
		}
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	in := services.CreateInput{
		OrderNumber:  req.OrderNumber,
		CustomerName: req.CustomerName,
		CNPJ:         req.CNPJ,
		Status:       req.Status,
		TotalValue:   req.TotalValue,
	}
	if t, err := time.Parse("2006-01-02", req.OrderDate); err == nil {
		in.OrderDate = t
	}
	if t, err := time.Parse("2006-01-02", req.ExpectedDelivery); err == nil {
		in.ExpectedDelivery = t
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, models.OrderItem{
			ProductDescription: it.ProductDescription,
			Quantity:           it.Quantity,
			Capacity:           it.Capacity,
			CertificateType:    it.CertificateType,
		})
	}

	res, err := h.Svc.Create(in, actorEmail(h.DB, r))
	middleware.RecordOrderOperation("create", err == nil)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_order", nil)
		return
	}
	payload := map[string]any{"order": res.Order}
	if len(res.ItemFailures) > 0 {
		failures := make([]string, len(res.ItemFailures))
		for i, fe := range res.ItemFailures {
			failures[i] = fe.Error()
		}
		payload["item_failures"] = failures
	}
	httpx.JSON(w, http.StatusCreated, payload)
}

// UpdateStatus: POST /api/orders/status?id=
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.OneOf("status", req.Status, models.OrderStatuses, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := h.Svc.UpdateStatus(id, req.Status, actorEmail(h.DB, r)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_status", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Update: POST /api/orders/update?id=. Partial edit of transport and value
// fields only; anything else in the body is ignored.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	allowed := map[string]bool{
		"customer_name": true, "total_value": true, "expected_delivery": true,
		"shipping_carrier": true, "tracking_code": true, "shipping_method": true,
		"collection_number": true,
	}
	updates := map[string]any{}
	for k, val := range body {
		if allowed[k] {
			updates[k] = val
		}
	}
	if len(updates) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_updatable_fields", nil)
		return
	}
	if tv, ok := updates["total_value"].(float64); ok && tv < 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"total_value": "must_not_be_negative"})
		return
	}
	order, err := h.Svc.Update(id, updates, actorEmail(h.DB, r))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Delete: POST /api/orders/delete?id=
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	err := h.Svc.Delete(id, actorEmail(h.DB, r))
	middleware.RecordOrderOperation("delete", err == nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_order", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
