package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Invoice statuses
const (
	InvoiceUnpaid   = "unpaid"
	InvoicePaid     = "paid"
	InvoiceRefunded = "refunded"
)

type InvoiceItem struct {
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Modifiers []string `json:"modifiers,omitempty"`
}

type InvoiceItemList []InvoiceItem

func (l InvoiceItemList) Value() (driver.Value, error) {
	if l == nil {
		l = InvoiceItemList{}
	}
	return json.Marshal(l)
}

func (l *InvoiceItemList) Scan(value interface{}) error {
	if value == nil {
		*l = InvoiceItemList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for InvoiceItemList", value)
	}
}

// Invoice is the settlement record for an order. At most one invoice may
// exist per order; billing fields are copied from the order at creation.
type Invoice struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	InvoiceNumber string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	OrderID       uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	CustomerName  string          `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	CustomerPhone string          `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	Subtotal      float64         `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax           float64         `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Total         float64         `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentType   string          `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_type"`
	Status        string          `gorm:"type:varchar(20);not null;default:'unpaid'" json:"status"`
	Items         InvoiceItemList `gorm:"type:text" json:"items"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}
