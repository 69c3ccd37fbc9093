package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Table statuses
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
	TableCleaning  = "cleaning"
)

// Seat statuses
const (
	SeatAvailable = "available"
	SeatOccupied  = "occupied"
)

type Seat struct {
	SeatNumber   int    `json:"seat_number"`
	Status       string `json:"status"`
	CustomerName string `json:"customer_name,omitempty"`
}

// SeatList is stored as a JSON text column. The whole list is written on
// every save, so in-place seat mutations are never lost to change tracking.
type SeatList []Seat

func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		s = SeatList{}
	}
	return json.Marshal(s)
}

func (s *SeatList) Scan(value interface{}) error {
	if value == nil {
		*s = SeatList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for SeatList", value)
	}
}

type Table struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TableNumber    int       `gorm:"uniqueIndex;not null" json:"table_number"`
	Capacity       int       `gorm:"not null" json:"capacity"`
	IsOccupied     bool      `gorm:"not null;default:false" json:"is_occupied"`
	Status         string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CurrentOrderID *uint     `gorm:"index" json:"current_order_id,omitempty"`
	Seats          SeatList  `gorm:"type:text" json:"seats"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// NewSeats seeds n available seats numbered from 1.
func NewSeats(n int) SeatList {
	seats := make(SeatList, 0, n)
	for i := 1; i <= n; i++ {
		seats = append(seats, Seat{SeatNumber: i, Status: SeatAvailable})
	}
	return seats
}

// SeatByNumber returns a pointer into the list, or nil if absent.
func (t *Table) SeatByNumber(n int) *Seat {
	for i := range t.Seats {
		if t.Seats[i].SeatNumber == n {
			return &t.Seats[i]
		}
	}
	return nil
}

// AllSeatsAvailable reports whether no seat is occupied.
func (t *Table) AllSeatsAvailable() bool {
	for _, s := range t.Seats {
		if s.Status == SeatOccupied {
			return false
		}
	}
	return true
}
