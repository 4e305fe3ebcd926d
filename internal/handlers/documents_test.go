package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
	"github.com/codebyjv/PortaldeRastreio/internal/storage"

	"gorm.io/gorm"
)

func newDocHandler(t *testing.T, db *gorm.DB) *DocumentHandler {
	t.Helper()
	audit := services.NewAuditService(db)
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	return NewDocumentHandler(db, services.NewDocumentService(db, store, audit))
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func seedLookupOrder(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	now := time.Now()
	o := models.Order{ID: id, OrderNumber: "n-" + id, CustomerName: "X",
		Status: models.StatusConfirmado, CreatedAt: now, ExpirationDate: now.Add(models.RetentionWindow)}
	if err := db.Create(&o).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestDocumentUploadAndList(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := newDocHandler(t, db)
	seedLookupOrder(t, db, "o1")

	buf, ctype := multipartUpload(t, map[string]string{"order_id": "o1", "category": "Nota Fiscal"}, "nf.pdf", []byte("pdf"))
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", buf)
	req.Header.Set("Content-Type", ctype)
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Upload(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/documents?order_id=o1", nil)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Document `json:"items"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected manual + upload, got %d", len(payload.Items))
	}
	if payload.Items[0].ID != "manual" || !payload.Items[0].IsDefault {
		t.Fatalf("manual must come first: %+v", payload.Items[0])
	}
	if payload.Items[1].OriginalName != "nf.pdf" || payload.Items[1].Category != models.CategoryNotaFiscal {
		t.Fatalf("uploaded document wrong: %+v", payload.Items[1])
	}
}

func TestDocumentUploadValidation(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := newDocHandler(t, db)
	seedLookupOrder(t, db, "o1")

	// missing file
	buf, ctype := multipartUpload(t, map[string]string{"order_id": "o1", "category": "Boleto"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", buf)
	req.Header.Set("Content-Type", ctype)
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Upload(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: expected 400 got %d", w.Code)
	}

	// bad category
	buf2, ctype2 := multipartUpload(t, map[string]string{"order_id": "o1", "category": "Recibo"}, "r.pdf", []byte("x"))
	req2 := httptest.NewRequest(http.MethodPost, "/api/documents/upload", buf2)
	req2.Header.Set("Content-Type", ctype2)
	req2 = asUser(req2, user.ID)
	w2 := httptest.NewRecorder()
	h.Upload(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("bad category: expected 400 got %d", w2.Code)
	}

	// unknown order
	buf3, ctype3 := multipartUpload(t, map[string]string{"order_id": "ghost", "category": "Boleto"}, "b.pdf", []byte("x"))
	req3 := httptest.NewRequest(http.MethodPost, "/api/documents/upload", buf3)
	req3.Header.Set("Content-Type", ctype3)
	req3 = asUser(req3, user.ID)
	w3 := httptest.NewRecorder()
	h.Upload(w3, req3)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("unknown order: expected 404 got %d", w3.Code)
	}
}

func TestDocumentManualCannotBeDeleted(t *testing.T) {
	db := setupTestDB(t)
	user := seedAdmin(t, db)
	h := newDocHandler(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/delete?id=manual", nil)
	req = asUser(req, user.ID)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}
