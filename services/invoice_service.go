package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

// InvoiceService synthesizes and manages invoices. One invoice per order,
// numbered INV-YYYYMM-NNNN with NNNN increasing within the calendar month.
type InvoiceService struct {
	DB *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{DB: db}
}

// NextInvoiceNumber allocates the next number for the given month.
func (is *InvoiceService) NextInvoiceNumber(now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", now.Format("200601"))

	// Longer suffixes must sort after shorter ones, so order by length
	// before value; plain string ordering puts 10000 before 9999.
	var last models.Invoice
	err := is.DB.Where("invoice_number LIKE ?", prefix+"%").
		Order("length(invoice_number) desc, invoice_number desc").
		First(&last).Error

	seq := 1
	if err == nil {
		suffix := strings.TrimPrefix(last.InvoiceNumber, prefix)
		if n, perr := strconv.Atoi(suffix); perr == nil {
			seq = n + 1
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", utils.Internal(err)
	}

	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// CreateForOrder builds an invoice from the order's stored line items and
// billing fields. Fails Conflict if the order already has one.
func (is *InvoiceService) CreateForOrder(order *models.Order, tax float64) (*models.Invoice, error) {
	var existing models.Invoice
	err := is.DB.Where("order_id = ?", order.ID).First(&existing).Error
	if err == nil {
		return nil, utils.Conflictf("invoice already exists for order %d", order.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Internal(err)
	}

	number, err := is.NextInvoiceNumber(time.Now())
	if err != nil {
		return nil, err
	}

	items := make(models.InvoiceItemList, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, models.InvoiceItem{
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  1,
			Modifiers: it.Modifiers,
		})
	}

	invoice := models.Invoice{
		InvoiceNumber: number,
		OrderID:       order.ID,
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Subtotal:      order.TotalAmount,
		Tax:           tax,
		Total:         order.TotalAmount + tax,
		PaymentType:   order.PaymentType,
		Status:        models.InvoiceUnpaid,
		Items:         items,
	}
	if err := is.DB.Create(&invoice).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &invoice, nil
}

// GetByOrder fetches the order's invoice if any.
func (is *InvoiceService) GetByOrder(orderID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := is.DB.Where("order_id = ?", orderID).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("no invoice for order %d", orderID)
		}
		return nil, utils.Internal(err)
	}
	return &invoice, nil
}
