package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/storage"
)

func newDocumentService(t *testing.T) (*DocumentService, *OrderService) {
	t.Helper()
	db := setupServiceTestDB(t)
	store := storage.NewLocalStore(t.TempDir(), "http://localhost:8080")
	audit := NewAuditService(db)
	return NewDocumentService(db, store, audit), NewOrderService(db, audit)
}

func TestUploadAndList(t *testing.T) {
	docSvc, orderSvc := newDocumentService(t)
	res, err := orderSvc.Create(CreateInput{OrderNumber: "1001", CustomerName: "A"}, "")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	doc, err := docSvc.Upload(res.Order.ID, models.CategoryNotaFiscal, "nf 1001.pdf", "application/pdf",
		11, strings.NewReader("pdf content"), "admin@portal.local")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.DownloadURL == "" || !strings.Contains(doc.DownloadURL, "/uploads/") {
		t.Fatalf("download url = %q", doc.DownloadURL)
	}
	data, err := os.ReadFile(doc.StoragePath)
	if err != nil || string(data) != "pdf content" {
		t.Fatalf("stored file wrong: %q err=%v", data, err)
	}
	if filepath.Base(doc.StoragePath) != doc.FileName {
		t.Fatalf("file name %q does not match storage path %q", doc.FileName, doc.StoragePath)
	}

	docs, err := docSvc.ForOrder(res.Order.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected manual + upload, got %d", len(docs))
	}
	if !docs[0].IsDefault || docs[0].Category != models.CategoryManual {
		t.Fatalf("first entry must be the synthetic manual, got %+v", docs[0])
	}
	if docs[1].ID != doc.ID {
		t.Fatalf("uploaded document missing from listing")
	}
}

func TestManualInjectedForEmptyOrder(t *testing.T) {
	docSvc, orderSvc := newDocumentService(t)
	res, err := orderSvc.Create(CreateInput{OrderNumber: "1002", CustomerName: "B"}, "")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	docs, err := docSvc.ForOrder(res.Order.ID, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "manual" || docs[0].DownloadURL != ManualDownloadURL {
		t.Fatalf("expected only the synthetic manual, got %+v", docs)
	}
	n, err := docSvc.CountForOrder(res.Order.ID)
	if err != nil || n != 0 {
		t.Fatalf("count must ignore the manual, got %d err=%v", n, err)
	}
}

func TestArchiveHidesDocument(t *testing.T) {
	docSvc, orderSvc := newDocumentService(t)
	res, _ := orderSvc.Create(CreateInput{OrderNumber: "1003", CustomerName: "C"}, "")
	doc, err := docSvc.Upload(res.Order.ID, models.CategoryBoleto, "boleto.pdf", "application/pdf",
		4, strings.NewReader("body"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := docSvc.SetArchived(doc.ID, true, ""); err != nil {
		t.Fatalf("archive: %v", err)
	}

	visible, _ := docSvc.ForOrder(res.Order.ID, false)
	if len(visible) != 1 {
		t.Fatalf("archived document still listed: %+v", visible)
	}
	all, _ := docSvc.ForOrder(res.Order.ID, true)
	if len(all) != 2 {
		t.Fatalf("include_archived listing wrong: %+v", all)
	}
}

func TestDeleteRemovesFileAndRow(t *testing.T) {
	docSvc, orderSvc := newDocumentService(t)
	res, _ := orderSvc.Create(CreateInput{OrderNumber: "1004", CustomerName: "D"}, "")
	doc, err := docSvc.Upload(res.Order.ID, models.CategoryCertificado, "cert.pdf", "application/pdf",
		4, strings.NewReader("body"), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := docSvc.Delete(doc.ID, "admin@portal.local"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(doc.StoragePath); !os.IsNotExist(err) {
		t.Fatalf("stored file not removed: %v", err)
	}
	docs, _ := docSvc.ForOrder(res.Order.ID, true)
	if len(docs) != 1 {
		t.Fatalf("metadata row not removed: %+v", docs)
	}
}
