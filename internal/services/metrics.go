package services

import (
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"gorm.io/gorm"
)

// DashboardMetrics is the pre-aggregated read the admin dashboard shows.
type DashboardMetrics struct {
	TotalOrders         int64   `json:"total_orders"`
	PendingOrders       int64   `json:"pending_orders"`
	ShippedOrders       int64   `json:"shipped_orders"`
	AverageDeliveryTime float64 `json:"average_delivery_time"` // days
}

type MetricsService struct{ DB *gorm.DB }

func NewMetricsService(db *gorm.DB) *MetricsService { return &MetricsService{DB: db} }

func (s *MetricsService) Dashboard() (*DashboardMetrics, error) {
	var m DashboardMetrics
	if err := s.DB.Model(&models.Order{}).Count(&m.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.StatusConfirmado, models.StatusPreparando}).
		Count(&m.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.StatusEmTransporte, models.StatusDespachado, models.StatusAguardandoRetirada}).
		Count(&m.ShippedOrders).Error; err != nil {
		return nil, err
	}
	// Average delivery time: order date to last status change of delivered orders.
	var delivered []models.Order
	if err := s.DB.Select("order_date", "status_updated_at").
		Where("status = ?", models.StatusEntregue).
		Find(&delivered).Error; err != nil {
		return nil, err
	}
	if len(delivered) > 0 {
		var total time.Duration
		for _, o := range delivered {
			total += o.StatusUpdatedAt.Sub(o.OrderDate)
		}
		m.AverageDeliveryTime = total.Hours() / 24 / float64(len(delivered))
	}
	return &m, nil
}
