package services

import (
	"fmt"
	"io"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ManualDownloadURL points at the usage manual every order exposes. The manual
// is injected at read time, never persisted per order.
const ManualDownloadURL = "/static/Manual_de_Uso_e_Armazenamento_de_Pesos.pdf"

type DocumentService struct {
	DB    *gorm.DB
	Store *storage.LocalStore
	Audit *AuditService
}

func NewDocumentService(db *gorm.DB, store *storage.LocalStore, audit *AuditService) *DocumentService {
	return &DocumentService{DB: db, Store: store, Audit: audit}
}

// Upload stores the file then inserts its metadata row. The two steps are
// sequential and non-atomic; a metadata failure leaves the stored file behind.
func (s *DocumentService) Upload(orderID, category, originalName, mimeType string, size int64, r io.Reader, actorEmail string) (*models.Document, error) {
	fileName, storagePath, err := s.Store.Save(originalName, r)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	doc := models.Document{
		ID:           uuid.NewString(),
		OrderID:      orderID,
		FileName:     fileName,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         size,
		StoragePath:  storagePath,
		DownloadURL:  s.Store.PublicURL(fileName),
		UploadedAt:   now,
		ExpiresAt:    now.Add(models.RetentionWindow),
		Category:     category,
	}
	if err := s.DB.Create(&doc).Error; err != nil {
		return nil, err
	}
	s.Audit.Log(actorEmail, fmt.Sprintf("Documento '%s' (%s) carregado.", originalName, category), &orderID, nil)
	return &doc, nil
}

// ForOrder lists an order's documents newest first and prepends the synthetic
// manual document.
func (s *DocumentService) ForOrder(orderID string, includeArchived bool) ([]models.Document, error) {
	q := s.DB.Where("order_id = ?", orderID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	var docs []models.Document
	if err := q.Order("uploaded_at desc").Find(&docs).Error; err != nil {
		return nil, err
	}
	manual := models.Document{
		ID:           "manual",
		OrderID:      orderID,
		FileName:     "Manual de Uso e Armazenamento de Pesos.pdf",
		OriginalName: "Manual de Uso e Armazenamento de Pesos.pdf",
		MimeType:     "application/pdf",
		DownloadURL:  ManualDownloadURL,
		IsDefault:    true,
		Category:     models.CategoryManual,
	}
	return append([]models.Document{manual}, docs...), nil
}

// CountForOrder ignores the synthetic manual.
func (s *DocumentService) CountForOrder(orderID string) (int64, error) {
	var n int64
	err := s.DB.Model(&models.Document{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

// SetArchived flips the archived flag.
func (s *DocumentService) SetArchived(documentID string, archived bool, actorEmail string) error {
	res := s.DB.Model(&models.Document{}).Where("id = ?", documentID).Update("is_archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the stored file first, then the metadata row. A row-delete
// failure after the file is gone stays unrolled-back; the operator retries.
func (s *DocumentService) Delete(documentID, actorEmail string) error {
	var doc models.Document
	if err := s.DB.First(&doc, "id = ?", documentID).Error; err != nil {
		return err
	}
	if err := s.Store.Remove(doc.StoragePath); err != nil {
		return err
	}
	if err := s.DB.Delete(&models.Document{}, "id = ?", documentID).Error; err != nil {
		return err
	}
	s.Audit.Log(actorEmail, fmt.Sprintf("Documento '%s' excluído.", doc.OriginalName), &doc.OrderID, nil)
	return nil
}
