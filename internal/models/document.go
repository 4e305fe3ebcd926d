package models

import "time"

// Document categories (closed set).
const (
	CategoryNotaFiscal  = "Nota Fiscal"
	CategoryBoleto      = "Boleto"
	CategoryCertificado = "Certificado"
	CategoryManual      = "Manual"
)

var DocumentCategories = []string{
	CategoryNotaFiscal,
	CategoryBoleto,
	CategoryCertificado,
	CategoryManual,
}

// Document is a file attached to an order. The always-present usage manual is
// not a row here; it is injected at read time with IsDefault set.
type Document struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OrderID      string    `gorm:"not null;index;size:36" json:"order_id"`
	FileName     string    `gorm:"not null" json:"file_name"` // stored name, unique per upload
	OriginalName string    `gorm:"not null" json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	StoragePath  string    `gorm:"not null" json:"storage_path"`
	DownloadURL  string    `json:"download_url"`
	UploadedAt   time.Time `json:"uploaded_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsArchived   bool      `gorm:"not null;default:false" json:"is_archived"`
	IsDefault    bool      `gorm:"-" json:"is_default"`
	Category     string    `gorm:"not null" json:"category"`
}
