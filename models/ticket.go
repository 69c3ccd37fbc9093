package models

import "time"

// Stations
const (
	StationKitchen = "kitchen"
	StationBar     = "bar"
)

// Ticket statuses
const (
	TicketPending   = "pending"
	TicketPreparing = "preparing"
	TicketReady     = "ready"
	TicketServed    = "served"
)

// StationTicket tracks preparation of one order at one station. At most one
// ticket exists per (order, station); creation is idempotent.
type StationTicket struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index:idx_order_station,unique" json:"order_id"`
	Station   string    `gorm:"type:varchar(20);not null;index:idx_order_station,unique" json:"station"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// ValidTicketStatus reports membership in the ticket lifecycle set. Any
// valid status may follow any other; ordering is not enforced.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketPending, TicketPreparing, TicketReady, TicketServed:
		return true
	}
	return false
}
