package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order types
const (
	OrderDineIn   = "dine_in"
	OrderTakeaway = "takeaway"
	OrderDelivery = "delivery"
)

// Payment types
const (
	PayCash     = "cash"
	PayCard     = "card"
	PayQR       = "qr"
	PayEWallet  = "e_wallet"
	PayGiftCard = "gift_card"
)

// Payment / refund statuses
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	RefundCompleted  = "completed"
)

type OrderItem struct {
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Category  string   `json:"category,omitempty"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// OrderItemList is stored as a JSON text column, round-tripping exactly
// what the client submitted.
type OrderItemList []OrderItem

func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		l = OrderItemList{}
	}
	return json.Marshal(l)
}

func (l *OrderItemList) Scan(value interface{}) error {
	if value == nil {
		*l = OrderItemList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for OrderItemList", value)
	}
}

// Sum adds up the line item prices.
func (l OrderItemList) Sum() float64 {
	var total float64
	for _, it := range l {
		total += it.Price
	}
	return total
}

// IntList is a JSON-serialized list of seat numbers.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		l = IntList{}
	}
	return json.Marshal(l)
}

func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = IntList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for IntList", value)
	}
}

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Items         OrderItemList `gorm:"type:text" json:"items"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	OrderType     string        `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	TableID       *uint         `gorm:"index" json:"table_id,omitempty"`
	TableNumber   *int          `json:"table_number,omitempty"`
	CustomerName  string        `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	CustomerPhone string        `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	AssignedSeats IntList       `gorm:"type:text" json:"assigned_seats,omitempty"`
	Notes         string        `gorm:"type:text" json:"notes,omitempty"`
	PaymentType   string        `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_type"`
	PaymentStatus string        `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentRef    string        `gorm:"type:varchar(100)" json:"payment_ref,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	RefundStatus  string        `gorm:"type:varchar(20)" json:"refund_status,omitempty"`
	RefundReason  string        `gorm:"type:text" json:"refund_reason,omitempty"`
	RefundedAt    *time.Time    `json:"refunded_at,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

// ValidPaymentType reports whether t is one of the five accepted values.
func ValidPaymentType(t string) bool {
	switch t {
	case PayCash, PayCard, PayQR, PayEWallet, PayGiftCard:
		return true
	}
	return false
}

// RequiresProcessing reports whether the payment type needs an external
// processing step before the order can be confirmed. Cash settles instantly.
func RequiresProcessing(t string) bool {
	return t != PayCash && ValidPaymentType(t)
}
