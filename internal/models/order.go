package models

import "time"

// Order statuses shown to customers and operators. The values are the
// user-visible Portuguese labels and are stored as-is.
const (
	StatusConfirmado        = "Confirmado"
	StatusPreparando        = "Preparando"
	StatusEmTransporte      = "Em transporte"
	StatusFaturado          = "Faturado"
	StatusDespachado        = "Despachado"
	StatusAguardandoRetirada = "Aguardando retirada"
	StatusEntregue          = "Entregue"
	StatusCancelado         = "Cancelado"
)

// OrderStatuses lists every allowed status value.
var OrderStatuses = []string{
	StatusConfirmado,
	StatusPreparando,
	StatusEmTransporte,
	StatusFaturado,
	StatusDespachado,
	StatusAguardandoRetirada,
	StatusEntregue,
	StatusCancelado,
}

// RetentionWindow is how long an order stays visible to customer lookup.
const RetentionWindow = 30 * 24 * time.Hour

type Order struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber      string    `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerName     string    `gorm:"not null" json:"customer_name"`
	CNPJ             string    `gorm:"index;size:14" json:"cnpj"` // digits only
	Status           string    `gorm:"not null;index" json:"status"`
	StatusUpdatedAt  time.Time `json:"status_updated_at"`
	OrderDate        time.Time `json:"order_date"`
	ExpectedDelivery time.Time `json:"expected_delivery"`
	TotalValue       float64   `gorm:"not null;default:0" json:"total_value"`
	CreatedAt        time.Time `json:"created_at"`
	ExpirationDate   time.Time `gorm:"index" json:"expiration_date"`

	// Shipping fields, optional until the order is dispatched.
	ShippingCarrier  string `json:"shipping_carrier,omitempty"`
	TrackingCode     string `json:"tracking_code,omitempty"`
	ShippingMethod   string `json:"shipping_method,omitempty"` // ex: "PAC", "Sedex"
	CollectionNumber string `json:"collection_number,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// Certificate types an item may require.
const (
	CertificateIPEM = "IPEM"
	CertificateRBC  = "RBC"
)

type OrderItem struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	OrderID            string     `gorm:"not null;index;size:36" json:"order_id"`
	ProductDescription string     `gorm:"not null" json:"product_description"`
	Quantity           *int       `json:"quantity,omitempty"`
	Capacity           *string    `json:"capacity,omitempty"`         // ex: "20kg", parsed from the description
	CertificateType    *string    `gorm:"index" json:"certificate_type,omitempty"` // IPEM or RBC
	ProposalApproved   bool       `gorm:"not null;default:false" json:"proposal_approved"`
	ProposalSentDate   *time.Time `json:"proposal_sent_date,omitempty"`
	ProposalApprovedDate *time.Time `json:"proposal_approved_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}
