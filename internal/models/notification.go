package models

import "time"

// Notification feeds the reminder bell. Created by the status rule engine or
// by admin actions; only the read flag is ever mutated afterwards.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Message   string    `gorm:"not null" json:"message"`
	OrderID   *string   `gorm:"index;size:36" json:"order_id,omitempty"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
