package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/auth"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Document{},
		&models.ActionLog{}, &models.Notification{}, &models.IpemAssessment{}, &models.IpemAssessmentItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Email: "admin@portal.local", Password: "x", Name: "Admin"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func asUser(r *http.Request, uid uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

func TestOrderCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := NewOrderHandler(db, services.NewOrderService(db, services.NewAuditService(db)))

	body := `{"order_number":"4063023","customer_name":"ACME LTDA","cnpj":"08.431.807/0001-90",
		"order_date":"2025-08-20","total_value":1500.5,
		"items":[{"product_description":"Peso Padrão 5kg","capacity":"5kg","certificate_type":"IPEM"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Order.CNPJ != "08431807000190" {
		t.Fatalf("cnpj not normalized: %q", created.Order.CNPJ)
	}
	if created.Order.Status != models.StatusConfirmado {
		t.Fatalf("default status missing: %q", created.Order.Status)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Order `json:"items"`
		Total int            `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Total != 1 || len(payload.Items) != 1 {
		t.Fatalf("expected 1 order, got %+v", payload)
	}
	if len(payload.Items[0].Items) != 1 {
		t.Fatalf("items not preloaded: %+v", payload.Items[0])
	}
}

func TestOrderCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := NewOrderHandler(db, services.NewOrderService(db, services.NewAuditService(db)))

	for name, body := range map[string]string{
		"missing order number": `{"customer_name":"A"}`,
		"negative total":       `{"order_number":"1","customer_name":"A","total_value":-5}`,
		"bad status":           `{"order_number":"1","customer_name":"A","status":"Perdido"}`,
		"bad certificate":      `{"order_number":"1","customer_name":"A","items":[{"product_description":"P","certificate_type":"INMETRO"}]}`,
		"short cnpj":           `{"order_number":"1","customer_name":"A","cnpj":"123"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req = asUser(req, user.ID)
		w := httptest.NewRecorder()
		h.Create(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", name, w.Code)
		}
	}
}

func TestOrderLookupRequiresValidCNPJ(t *testing.T) {
	db := setupTestDB(t)
	h := NewOrderHandler(db, services.NewOrderService(db, services.NewAuditService(db)))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup?cnpj=123", nil)
	w := httptest.NewRecorder()
	h.Lookup(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestOrderLookupReturnsCustomerOrders(t *testing.T) {
	db := setupTestDB(t)
	h := NewOrderHandler(db, services.NewOrderService(db, services.NewAuditService(db)))
	now := time.Now()
	orders := []models.Order{
		{ID: "o1", OrderNumber: "1001", CustomerName: "A", CNPJ: "08431807000190",
			Status: models.StatusConfirmado, CreatedAt: now, ExpirationDate: now.Add(24 * time.Hour)},
		{ID: "o2", OrderNumber: "1002", CustomerName: "A", CNPJ: "08431807000190",
			Status: models.StatusEntregue, CreatedAt: now.AddDate(0, 0, -40), ExpirationDate: now.Add(-time.Hour)},
	}
	for _, o := range orders {
		if err := db.Create(&o).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	// formatted tax id must be accepted
	req := httptest.NewRequest(http.MethodGet, "/api/orders/lookup?cnpj=08.431.807%2F0001-90", nil)
	w := httptest.NewRecorder()
	h.Lookup(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Items []models.Order `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 || payload.Items[0].ID != "o1" {
		t.Fatalf("expired order must be hidden, got %+v", payload.Items)
	}
}

func TestOrderStatusUpdate(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewOrderService(db, services.NewAuditService(db))
	h := NewOrderHandler(db, svc)
	res, err := svc.Create(services.CreateInput{OrderNumber: "2001", CustomerName: "B"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/orders/status?id="+res.Order.ID,
		strings.NewReader(`{"status":"Em transporte"}`))
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}

	// unknown status rejected
	req2 := httptest.NewRequest(http.MethodPost, "/api/orders/status?id="+res.Order.ID,
		strings.NewReader(`{"status":"Sumiu"}`))
	req2 = asUser(req2, user.ID)
	w2 := httptest.NewRecorder()
	h.UpdateStatus(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w2.Code)
	}

	// unknown order 404s
	req3 := httptest.NewRequest(http.MethodPost, "/api/orders/status?id=missing",
		strings.NewReader(`{"status":"Entregue"}`))
	req3 = asUser(req3, user.ID)
	w3 := httptest.NewRecorder()
	h.UpdateStatus(w3, req3)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w3.Code)
	}
}

func TestOrderUpdateIgnoresUnknownFields(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewOrderService(db, services.NewAuditService(db))
	h := NewOrderHandler(db, svc)
	res, err := svc.Create(services.CreateInput{OrderNumber: "3001", CustomerName: "C"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	body := `{"tracking_code":"BR123","shipping_carrier":"Correios","status":"Entregue","order_number":"999"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders/update?id="+res.Order.ID, strings.NewReader(body))
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Update(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var reloaded models.Order
	db.First(&reloaded, "id = ?", res.Order.ID)
	if reloaded.TrackingCode != "BR123" || reloaded.ShippingCarrier != "Correios" {
		t.Fatalf("transport fields not applied: %+v", reloaded)
	}
	if reloaded.Status != models.StatusConfirmado || reloaded.OrderNumber != "3001" {
		t.Fatalf("protected fields were modified: %+v", reloaded)
	}
}

func TestOrderDelete(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewOrderService(db, services.NewAuditService(db))
	h := NewOrderHandler(db, svc)
	res, err := svc.Create(services.CreateInput{OrderNumber: "4001", CustomerName: "D"}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/orders/delete?id="+res.Order.ID, nil)
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var n int64
	db.Model(&models.Order{}).Count(&n)
	if n != 0 {
		t.Fatal("order still present after delete")
	}
}
