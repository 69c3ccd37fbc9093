package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

// PaymentService settles orders: marks them paid, synthesizes the invoice,
// and handles refunds and revenue summaries.
type PaymentService struct {
	DB       *gorm.DB
	Invoices *InvoiceService
	Cache    *Cache
}

func NewPaymentService(db *gorm.DB, invoices *InvoiceService, cache *Cache) *PaymentService {
	return &PaymentService{DB: db, Invoices: invoices, Cache: cache}
}

const summaryCacheKey = "payments:summary"

// PaymentOutcome is the result of a successful settlement.
type PaymentOutcome struct {
	OrderID     uint      `json:"order_id"`
	PaymentType string    `json:"payment_type"`
	Amount      float64   `json:"amount"`
	Reference   string    `json:"reference,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
	InvoiceID   *uint     `json:"invoice_id,omitempty"`
}

// processExternal simulates the gateway round trip for card/qr/e-wallet/
// gift-card payments and yields a reference token. Cash never gets here.
func (ps *PaymentService) processExternal(orderID uint, paymentType string, amount float64) (string, error) {
	ref := fmt.Sprintf("PAY-%s-%d-%d", paymentType, orderID, time.Now().UnixNano())
	utils.InfoLogger.Printf("processed %s payment of %.2f for order %d (ref %s)", paymentType, amount, orderID, ref)
	return ref, nil
}

// ProcessPayment settles the order. The amount must match the stored total
// exactly; nothing is mutated on a validation failure. Invoice synthesis is
// best-effort: its failure is logged and the payment still succeeds.
func (ps *PaymentService) ProcessPayment(orderID uint, paymentType string, amount float64) (*PaymentOutcome, error) {
	var order models.Order
	if err := ps.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("order %d not found", orderID)
		}
		return nil, utils.Internal(err)
	}

	if !models.ValidPaymentType(paymentType) {
		return nil, utils.BadRequestf("invalid payment type %q", paymentType)
	}
	if order.PaymentStatus == models.PaymentCompleted {
		return nil, utils.BadRequestf("order %d is already paid", orderID)
	}
	if amount != order.TotalAmount {
		return nil, utils.BadRequestf("amount %.2f does not match order total %.2f", amount, order.TotalAmount)
	}

	var ref string
	if models.RequiresProcessing(paymentType) {
		var err error
		ref, err = ps.processExternal(orderID, paymentType, amount)
		if err != nil {
			return nil, utils.Internal(err)
		}
	}

	now := time.Now()
	order.PaymentType = paymentType
	order.PaymentStatus = models.PaymentCompleted
	order.PaymentRef = ref
	order.PaidAt = &now
	order.UpdatedAt = now
	if err := ps.DB.Save(&order).Error; err != nil {
		return nil, utils.Internal(err)
	}

	outcome := &PaymentOutcome{
		OrderID:     order.ID,
		PaymentType: paymentType,
		Amount:      amount,
		Reference:   ref,
		PaidAt:      now,
	}

	// Invoice side of settlement, decoupled from the payment itself.
	if invoice, err := ps.Invoices.GetByOrder(order.ID); err == nil {
		outcome.InvoiceID = &invoice.ID
		invoice.Status = models.InvoicePaid
		invoice.PaymentType = paymentType
		if serr := ps.DB.Save(invoice).Error; serr != nil {
			utils.ErrorLogger.Printf("failed to mark invoice %d paid: %v", invoice.ID, serr)
		}
	} else if invoice, cerr := ps.Invoices.CreateForOrder(&order, 0); cerr == nil {
		invoice.Status = models.InvoicePaid
		if serr := ps.DB.Save(invoice).Error; serr != nil {
			utils.ErrorLogger.Printf("failed to mark invoice %d paid: %v", invoice.ID, serr)
		}
		outcome.InvoiceID = &invoice.ID
	} else {
		utils.ErrorLogger.Printf("invoice creation failed for order %d: %v", order.ID, cerr)
	}

	ps.Cache.Invalidate(summaryCacheKey)
	return outcome, nil
}

// RefundPayment reverses a completed payment.
func (ps *PaymentService) RefundPayment(orderID uint, reason string) (*models.Order, error) {
	var order models.Order
	if err := ps.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("order %d not found", orderID)
		}
		return nil, utils.Internal(err)
	}

	if order.PaymentStatus != models.PaymentCompleted {
		return nil, utils.BadRequestf("order %d was never paid", orderID)
	}
	if order.RefundStatus == models.RefundCompleted {
		return nil, utils.BadRequestf("order %d is already refunded", orderID)
	}

	if models.RequiresProcessing(order.PaymentType) {
		utils.InfoLogger.Printf("processed refund of %.2f for order %d (ref %s)", order.TotalAmount, order.ID, order.PaymentRef)
	}

	now := time.Now()
	order.RefundStatus = models.RefundCompleted
	order.RefundReason = reason
	order.RefundedAt = &now
	order.UpdatedAt = now
	if err := ps.DB.Save(&order).Error; err != nil {
		return nil, utils.Internal(err)
	}

	if invoice, err := ps.Invoices.GetByOrder(order.ID); err == nil {
		invoice.Status = models.InvoiceRefunded
		if serr := ps.DB.Save(invoice).Error; serr != nil {
			utils.ErrorLogger.Printf("failed to mark invoice %d refunded: %v", invoice.ID, serr)
		}
	}

	ps.Cache.Invalidate(summaryCacheKey)
	return &order, nil
}

// TypeBreakdown is the per-payment-type slice of the summary.
type TypeBreakdown struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type Summary struct {
	TotalRevenue float64                  `json:"total_revenue"`
	Transactions int64                    `json:"transactions"`
	ByType       map[string]TypeBreakdown `json:"by_type"`
}

// GetSummary aggregates completed payments between the optional bounds.
// Unbounded summaries are served from cache when Redis is configured.
func (ps *PaymentService) GetSummary(start, end *time.Time) (*Summary, error) {
	cacheable := start == nil && end == nil
	if cacheable {
		var cached Summary
		if ps.Cache.GetJSON(summaryCacheKey, &cached) {
			return &cached, nil
		}
	}

	query := ps.DB.Model(&models.Order{}).Where("payment_status = ?", models.PaymentCompleted)
	if start != nil {
		query = query.Where("paid_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("paid_at <= ?", *end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, utils.Internal(err)
	}

	summary := &Summary{ByType: make(map[string]TypeBreakdown)}
	for _, o := range orders {
		summary.TotalRevenue += o.TotalAmount
		summary.Transactions++
		b := summary.ByType[o.PaymentType]
		b.Count++
		b.Amount += o.TotalAmount
		summary.ByType[o.PaymentType] = b
	}

	if cacheable {
		ps.Cache.SetJSON(summaryCacheKey, summary)
	}
	return summary, nil
}
