package models

import "time"

// IpemAssessment is a calibration batch identified by its date. Pending IPEM
// items are assigned to a batch through IpemAssessmentItem; items without a
// join row are "pending".
type IpemAssessment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AssessmentDate time.Time `gorm:"not null" json:"assessment_date"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type IpemAssessmentItem struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	AssessmentID uint `gorm:"not null;index" json:"assessment_id"`
	OrderItemID  uint `gorm:"not null;uniqueIndex" json:"order_item_id"`
}
