// Package notify evaluates the status-driven reminder rules. It runs on an
// external schedule, synthesizes notification drafts and inserts them in a
// single batch. The message strings are the operator-facing contract: they
// state the rule's threshold and interpolate the order number, and must not be
// reworded.
package notify

import (
	"fmt"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/dates"
	"github.com/codebyjv/PortaldeRastreio/internal/models"

	"gorm.io/gorm"
)

const (
	msgPreparando        = `O pedido %s está há mais de 7 dias com o status "Preparando", verificar.`
	msgAguardandoRetirada = `O pedido %s está há mais de 3 dias com o status "Aguardando retirada", verificar.`
	msgIpemPending       = "Existem %d itens aguardando aferição IPEM há mais de 2 dias."
	msgRbcPending        = "Existem %d propostas RBC para aprovar há mais de 2 dias."
	msgNoDocuments       = "O pedido %s está sem documentos anexados há mais de 5 dias."

	// ipemSuppressionSuffix matches every count variant of msgIpemPending so a
	// recent notification suppresses the next one regardless of the count.
	ipemSuppressionSuffix = "itens aguardando aferição IPEM há mais de 2 dias."
)

// Engine evaluates the five reminder rules against a reference instant. Rules
// are independent and side-effect-free; the only write is the final batch
// insert.
type Engine struct{ DB *gorm.DB }

func NewEngine(db *gorm.DB) *Engine { return &Engine{DB: db} }

// Run evaluates every rule for now and inserts the qualifying drafts. The
// created notifications are returned for the caller's report.
func (e *Engine) Run(now time.Time) ([]models.Notification, error) {
	var drafts []models.Notification

	stale, err := e.staleStatusDrafts(now)
	if err != nil {
		return nil, err
	}
	drafts = append(drafts, stale...)

	ipem, err := e.ipemDrafts(now)
	if err != nil {
		return nil, err
	}
	drafts = append(drafts, ipem...)

	rbc, err := e.rbcDrafts(now)
	if err != nil {
		return nil, err
	}
	drafts = append(drafts, rbc...)

	docs, err := e.missingDocumentDrafts(now)
	if err != nil {
		return nil, err
	}
	drafts = append(drafts, docs...)

	if len(drafts) == 0 {
		return nil, nil
	}
	for i := range drafts {
		drafts[i].CreatedAt = now
	}
	if err := e.DB.Create(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// staleStatusDrafts covers rules 1 and 2: orders stuck in "Preparando" beyond
// 7 business days and in "Aguardando retirada" beyond 3. A coarse calendar
// prefilter bounds the candidate set before the exact business-day check.
func (e *Engine) staleStatusDrafts(now time.Time) ([]models.Notification, error) {
	var drafts []models.Notification
	rules := []struct {
		status    string
		prefilter int // calendar days, deliberately wider than the threshold
		threshold int // business days
		message   string
	}{
		{models.StatusPreparando, 10, 7, msgPreparando},
		{models.StatusAguardandoRetirada, 5, 3, msgAguardandoRetirada},
	}
	for _, rule := range rules {
		limit := now.AddDate(0, 0, -rule.prefilter)
		var orders []models.Order
		err := e.DB.Select("id", "order_number", "status_updated_at").
			Where("status = ?", rule.status).
			Where("status_updated_at < ?", limit).
			Find(&orders).Error
		if err != nil {
			return nil, err
		}
		for _, order := range orders {
			if dates.BusinessDaysDifference(order.StatusUpdatedAt, now) > rule.threshold {
				id := order.ID
				drafts = append(drafts, models.Notification{
					Message: fmt.Sprintf(rule.message, order.OrderNumber),
					OrderID: &id,
				})
			}
		}
	}
	return drafts, nil
}

// ipemDrafts covers rule 3: IPEM items with no assessment assignment for more
// than 2 business days, batched into one notification with a count and
// suppressed when an equivalent one exists within the lookback window.
func (e *Engine) ipemDrafts(now time.Time) ([]models.Notification, error) {
	limit := now.AddDate(0, 0, -4)
	sub := e.DB.Model(&models.IpemAssessmentItem{}).Select("order_item_id")
	var count int64
	err := e.DB.Model(&models.OrderItem{}).
		Where("certificate_type = ?", models.CertificateIPEM).
		Where("id NOT IN (?)", sub).
		Where("created_at < ?", limit).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	suppressed, err := e.recentExists("message LIKE ?", "%"+ipemSuppressionSuffix, limit)
	if err != nil {
		return nil, err
	}
	if suppressed {
		return nil, nil
	}
	return []models.Notification{{Message: fmt.Sprintf(msgIpemPending, count)}}, nil
}

// rbcDrafts covers rule 4: RBC proposals sent but unapproved for more than 2
// business days. The coarse filter selects candidates; the exact business-day
// check decides the count that goes into the message.
func (e *Engine) rbcDrafts(now time.Time) ([]models.Notification, error) {
	limit := now.AddDate(0, 0, -4)
	var items []models.OrderItem
	err := e.DB.Select("id", "proposal_sent_date").
		Where("certificate_type = ?", models.CertificateRBC).
		Where("proposal_approved = ?", false).
		Where("proposal_sent_date IS NOT NULL").
		Where("proposal_sent_date < ?", limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	count := 0
	for _, item := range items {
		if item.ProposalSentDate != nil && dates.BusinessDaysDifference(*item.ProposalSentDate, now) > 2 {
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	message := fmt.Sprintf(msgRbcPending, count)
	suppressed, err := e.recentExists("message = ?", message, limit)
	if err != nil {
		return nil, err
	}
	if suppressed {
		return nil, nil
	}
	return []models.Notification{{Message: message}}, nil
}

// missingDocumentDrafts covers rule 5: orders with zero attached documents
// more than 5 calendar days after creation. One notification per order,
// not batched.
func (e *Engine) missingDocumentDrafts(now time.Time) ([]models.Notification, error) {
	limit := now.AddDate(0, 0, -5)
	sub := e.DB.Model(&models.Document{}).Select("order_id")
	var orders []models.Order
	err := e.DB.Select("id", "order_number").
		Where("created_at < ?", limit).
		Where("id NOT IN (?)", sub).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	var drafts []models.Notification
	for _, order := range orders {
		id := order.ID
		drafts = append(drafts, models.Notification{
			Message: fmt.Sprintf(msgNoDocuments, order.OrderNumber),
			OrderID: &id,
		})
	}
	return drafts, nil
}

func (e *Engine) recentExists(cond, arg string, since time.Time) (bool, error) {
	var n int64
	err := e.DB.Model(&models.Notification{}).
		Where(cond, arg).
		Where("created_at > ?", since).
		Count(&n).Error
	return n > 0, err
}
