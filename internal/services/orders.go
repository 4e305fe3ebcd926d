package services

import (
	"fmt"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/importer"
	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService owns order lifecycle operations. Multi-step writes (order row
// plus item rows) run as sequential, non-atomic steps: a failed item insert is
// reported but never rolls the order back.
type OrderService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewOrderService(db *gorm.DB, audit *AuditService) *OrderService {
	return &OrderService{DB: db, Audit: audit}
}

// CreateInput mirrors the fields an operator or the importer supplies.
type CreateInput struct {
	OrderNumber      string
	CustomerName     string
	CNPJ             string
	Status           string
	OrderDate        time.Time
	ExpectedDelivery time.Time
	TotalValue       float64
	Items            []models.OrderItem
}

// CreateResult carries the created order and any item rows that failed after
// the order row was committed.
type CreateResult struct {
	Order        *models.Order
	ItemFailures []error
}

// Create inserts the order row and then, best-effort, its item rows.
// actorEmail feeds the audit trail and may be empty for system paths.
func (s *OrderService) Create(in CreateInput, actorEmail string) (*CreateResult, error) {
	now := time.Now()
	order := models.Order{
		ID:               uuid.NewString(),
		OrderNumber:      in.OrderNumber,
		CustomerName:     in.CustomerName,
		CNPJ:             in.CNPJ,
		Status:           in.Status,
		StatusUpdatedAt:  now,
		OrderDate:        in.OrderDate,
		ExpectedDelivery: in.ExpectedDelivery,
		TotalValue:       in.TotalValue,
		CreatedAt:        now,
		ExpirationDate:   now.Add(models.RetentionWindow),
	}
	if order.Status == "" {
		order.Status = models.StatusConfirmado
	}
	if err := s.DB.Omit("Items").Create(&order).Error; err != nil {
		return nil, err
	}
	res := &CreateResult{Order: &order}
	for i := range in.Items {
		item := in.Items[i]
		item.ID = 0
		item.OrderID = order.ID
		item.CreatedAt = now
		if err := s.DB.Create(&item).Error; err != nil {
			res.ItemFailures = append(res.ItemFailures, fmt.Errorf("item %q: %w", item.ProductDescription, err))
			continue
		}
		order.Items = append(order.Items, item)
	}
	s.Audit.Log(actorEmail, fmt.Sprintf("Pedido #%s criado.", order.OrderNumber), &order.ID, nil)
	return res, nil
}

// importCreator adapts OrderService to the importer's commit contract.
type importCreator struct {
	svc        *OrderService
	actorEmail string
}

// NewImportCreator returns the importer.OrderCreator used by the commit step.
func (s *OrderService) NewImportCreator(actorEmail string) importer.OrderCreator {
	return &importCreator{svc: s, actorEmail: actorEmail}
}

func (c *importCreator) CreateImportedOrder(rec importer.PreviewRecord) ([]error, error) {
	in := CreateInput{
		OrderNumber:      rec.OrderNumber,
		CustomerName:     rec.CustomerName,
		CNPJ:             rec.CNPJ,
		Status:           models.StatusConfirmado,
		ExpectedDelivery: time.Now().Add(7 * 24 * time.Hour),
	}
	if rec.OrderDate != "" {
		if t, err := time.Parse(time.RFC3339, rec.OrderDate); err == nil {
			in.OrderDate = t
		}
	}
	for _, it := range rec.Items {
		in.Items = append(in.Items, models.OrderItem{
			ProductDescription: it.ProductDescription,
			Capacity:           it.Capacity,
			CertificateType:    it.CertificateType,
		})
	}
	res, err := c.svc.Create(in, c.actorEmail)
	if err != nil {
		return nil, err
	}
	return res.ItemFailures, nil
}

// ExistingOrderNumbers fetches the full order-number set once. The importer
// validates every row against this snapshot instead of issuing per-row lookups.
func (s *OrderService) ExistingOrderNumbers() (map[string]struct{}, error) {
	var numbers []string
	if err := s.DB.Model(&models.Order{}).Pluck("order_number", &numbers).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return set, nil
}

// List returns all orders, newest first, with items preloaded.
func (s *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").Order("created_at desc").Find(&orders).Error
	return orders, err
}

// ByCNPJ is the customer lookup: normalized tax id, expired orders excluded.
func (s *OrderService) ByCNPJ(cnpj string, now time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.Preload("Items").
		Where("cnpj = ?", cnpj).
		Where("expiration_date > ?", now).
		Order("created_at desc").
		Find(&orders).Error
	return orders, err
}

// UpdateStatus sets the status and its change timestamp.
func (s *OrderService) UpdateStatus(orderID, newStatus, actorEmail string) error {
	res := s.DB.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]any{"status": newStatus, "status_updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.Audit.Log(actorEmail, fmt.Sprintf("Status do pedido alterado para '%s'.", newStatus), &orderID, nil)
	return nil
}

// Update applies a partial edit (transport fields, total, delivery).
func (s *OrderService) Update(orderID string, updates map[string]any, actorEmail string) (*models.Order, error) {
	res := s.DB.Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	fields := make([]string, 0, len(updates))
	for k := range updates {
		fields = append(fields, k)
	}
	s.Audit.Log(actorEmail, "Detalhes do pedido atualizados.", &orderID, map[string]any{"updatedFields": fields})
	var order models.Order
	if err := s.DB.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order. The order number is fetched beforehand so the audit
// entry survives the deletion.
func (s *OrderService) Delete(orderID, actorEmail string) error {
	orderNumber := "desconhecido"
	var order models.Order
	if err := s.DB.Select("order_number").First(&order, "id = ?", orderID).Error; err == nil {
		orderNumber = order.OrderNumber
	}
	res := s.DB.Delete(&models.Order{}, "id = ?", orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	s.Audit.Log(actorEmail, fmt.Sprintf("Pedido #%s excluído.", orderNumber), &orderID, nil)
	return nil
}
