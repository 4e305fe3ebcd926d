package services

import (
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"gorm.io/gorm"
)

// RbcService drives the RBC proposal approval workflow: a proposal is sent for
// an RBC-flagged item and later approved.
type RbcService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewRbcService(db *gorm.DB, audit *AuditService) *RbcService {
	return &RbcService{DB: db, Audit: audit}
}

// PendingProposals returns RBC items whose proposal is not approved yet,
// including those with no proposal sent.
func (s *RbcService) PendingProposals() ([]EnrichedItem, error) {
	var items []models.OrderItem
	err := s.DB.Where("certificate_type = ?", models.CertificateRBC).
		Where("proposal_approved = ?", false).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	ipem := IpemService{DB: s.DB}
	return ipem.enrich(items)
}

// MarkProposalSent stamps the send date.
func (s *RbcService) MarkProposalSent(itemID uint, actorEmail string) error {
	res := s.DB.Model(&models.OrderItem{}).
		Where("id = ? AND certificate_type = ?", itemID, models.CertificateRBC).
		Update("proposal_sent_date", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.logFor(itemID, actorEmail, "Proposta RBC enviada.")
	return nil
}

// ApproveProposal marks the proposal approved and stamps the approval date.
func (s *RbcService) ApproveProposal(itemID uint, actorEmail string) error {
	res := s.DB.Model(&models.OrderItem{}).
		Where("id = ? AND certificate_type = ?", itemID, models.CertificateRBC).
		Updates(map[string]any{"proposal_approved": true, "proposal_approved_date": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.logFor(itemID, actorEmail, "Proposta RBC aprovada.")
	return nil
}

func (s *RbcService) logFor(itemID uint, actorEmail, action string) {
	var item models.OrderItem
	if err := s.DB.Select("order_id").First(&item, itemID).Error; err != nil {
		return
	}
	s.Audit.Log(actorEmail, action, &item.OrderID, map[string]any{"itemId": itemID})
}
