package services

import (
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"gorm.io/gorm"
)

// IpemService manages calibration batches. An IPEM-flagged item is pending
// until a join row assigns it to an assessment.
type IpemService struct{ DB *gorm.DB }

func NewIpemService(db *gorm.DB) *IpemService { return &IpemService{DB: db} }

// EnrichedItem is an order item with its parent order, the shape the
// certification dashboards consume.
type EnrichedItem struct {
	models.OrderItem
	Order models.Order `json:"order"`
}

func (s *IpemService) enrich(items []models.OrderItem) ([]EnrichedItem, error) {
	out := make([]EnrichedItem, 0, len(items))
	for _, it := range items {
		var order models.Order
		if err := s.DB.First(&order, "id = ?", it.OrderID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				continue
			}
			return nil, err
		}
		out = append(out, EnrichedItem{OrderItem: it, Order: order})
	}
	return out, nil
}

// PendingItems returns IPEM items with no assessment assignment yet.
func (s *IpemService) PendingItems() ([]EnrichedItem, error) {
	var items []models.OrderItem
	sub := s.DB.Model(&models.IpemAssessmentItem{}).Select("order_item_id")
	err := s.DB.Where("certificate_type = ?", models.CertificateIPEM).
		Where("id NOT IN (?)", sub).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return s.enrich(items)
}

// Assessments lists batches, newest assessment date first.
func (s *IpemService) Assessments() ([]models.IpemAssessment, error) {
	var out []models.IpemAssessment
	err := s.DB.Order("assessment_date desc").Find(&out).Error
	return out, err
}

func (s *IpemService) CreateAssessment(date time.Time, notes *string) (*models.IpemAssessment, error) {
	a := models.IpemAssessment{AssessmentDate: date, Notes: notes, CreatedAt: time.Now()}
	if err := s.DB.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// AssessmentItems returns the items assigned to one batch.
func (s *IpemService) AssessmentItems(assessmentID uint) ([]EnrichedItem, error) {
	var items []models.OrderItem
	sub := s.DB.Model(&models.IpemAssessmentItem{}).
		Select("order_item_id").
		Where("assessment_id = ?", assessmentID)
	if err := s.DB.Where("id IN (?)", sub).Find(&items).Error; err != nil {
		return nil, err
	}
	return s.enrich(items)
}

// AddItems assigns pending items to a batch. Each insert is independent; a
// duplicate assignment fails its own row only.
func (s *IpemService) AddItems(assessmentID uint, itemIDs []uint) error {
	var firstErr error
	for _, id := range itemIDs {
		row := models.IpemAssessmentItem{AssessmentID: assessmentID, OrderItemID: id}
		if err := s.DB.Create(&row).Error; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *IpemService) RemoveItem(assessmentID, itemID uint) error {
	res := s.DB.Where("assessment_id = ? AND order_item_id = ?", assessmentID, itemID).
		Delete(&models.IpemAssessmentItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
