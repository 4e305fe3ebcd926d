package models

import "time"

// Audit logging. Append-only; writes are best-effort and never block the
// operation being logged.
type ActionLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserEmail string    `gorm:"not null" json:"user_email"`
	Action    string    `gorm:"not null" json:"action"`
	OrderID   *string   `gorm:"index;size:36" json:"order_id,omitempty"`
	Details   *string   `json:"details,omitempty"` // JSON payload, optional
	CreatedAt time.Time `json:"created_at"`
}
