package services

import (
	"encoding/json"
	"log"

	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"gorm.io/gorm"
)

// AuditService appends action log entries. Logging is best-effort: failures go
// to the diagnostic log and never surface to the caller or block the primary
// operation.
type AuditService struct{ DB *gorm.DB }

func NewAuditService(db *gorm.DB) *AuditService { return &AuditService{DB: db} }

// Log records an action. orderID may be nil for system-wide entries; details,
// when non-nil, is serialized to JSON.
func (s *AuditService) Log(userEmail, action string, orderID *string, details any) {
	if userEmail == "" {
		// automatic/system actions without an operator are not logged
		return
	}
	entry := models.ActionLog{UserEmail: userEmail, Action: action, OrderID: orderID}
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			payload := string(b)
			entry.Details = &payload
		}
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("audit: falha ao registrar ação %q: %v", action, err)
	}
}

// ForOrder returns an order's log entries, newest first.
func (s *AuditService) ForOrder(orderID string) ([]models.ActionLog, error) {
	var logs []models.ActionLog
	err := s.DB.Where("order_id = ?", orderID).Order("created_at desc").Find(&logs).Error
	return logs, err
}

// Recent returns the latest entries across all orders.
func (s *AuditService) Recent(limit int) ([]models.ActionLog, error) {
	var logs []models.ActionLog
	err := s.DB.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}
