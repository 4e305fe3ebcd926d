package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codebyjv/PortaldeRastreio/internal/importer"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
)

func TestImportCommitCreatesOrders(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewOrderService(db, services.NewAuditService(db))
	h := NewImportHandler(db, svc)

	body := `{"records":[
		{"order_number":"4063023","customer_name":"ACME LTDA","cnpj":"08431807000190",
		 "order_date":"2025-08-20T00:00:00Z",
		 "items":[{"product_description":"Peso Padrão 5kg","capacity":"5kg","certificate_type":"IPEM"}]},
		{"customer_name":"SEM NUMERO"}
	]}`
	req := httptest.NewRequest(http.MethodPost, "/api/import/commit", strings.NewReader(body))
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Commit(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var result importer.CommitResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success != 1 || result.Skipped != 1 || result.Errors != 0 {
		t.Fatalf("tally wrong: %+v", result)
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, "order_number = ?", "4063023").Error; err != nil {
		t.Fatalf("imported order missing: %v", err)
	}
	if order.Status != models.StatusConfirmado || len(order.Items) != 1 {
		t.Fatalf("imported order wrong: %+v", order)
	}
}

func TestImportCommitSkipsExistingOrders(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewOrderService(db, services.NewAuditService(db))
	h := NewImportHandler(db, svc)
	if _, err := svc.Create(services.CreateInput{OrderNumber: "4063023", CustomerName: "JA EXISTE"}, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	body := `{"records":[{"order_number":"4063023","customer_name":"ACME LTDA"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/import/commit", strings.NewReader(body))
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Commit(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var result importer.CommitResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Success != 0 || result.Skipped != 1 {
		t.Fatalf("duplicate must be skipped: %+v", result)
	}
	var n int64
	db.Model(&models.Order{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected the pre-existing order only, got %d", n)
	}
}

func TestImportCommitRejectsEmptyBody(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := NewImportHandler(db, services.NewOrderService(db, services.NewAuditService(db)))

	req := httptest.NewRequest(http.MethodPost, "/api/import/commit", strings.NewReader(`{"records":[]}`))
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Commit(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestImportPreviewRequiresFile(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := NewImportHandler(db, services.NewOrderService(db, services.NewAuditService(db)))

	buf, ctype := multipartUpload(t, map[string]string{}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/preview", buf)
	req.Header.Set("Content-Type", ctype)
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Preview(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}
