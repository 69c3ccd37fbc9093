package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

// TicketService owns station ticket lifecycles and ticket printing.
type TicketService struct {
	DB   *gorm.DB
	Sink StationSink
}

func NewTicketService(db *gorm.DB, sink StationSink) *TicketService {
	if sink == nil {
		sink = NewConsoleSink()
	}
	return &TicketService{DB: db, Sink: sink}
}

// CreateTicket creates the (order, station) ticket, or returns the existing
// one unchanged. The order must exist.
func (ts *TicketService) CreateTicket(orderID uint, station string) (*models.StationTicket, error) {
	var order models.Order
	if err := ts.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("order %d not found", orderID)
		}
		return nil, utils.Internal(err)
	}

	var existing models.StationTicket
	err := ts.DB.Where("order_id = ? AND station = ?", orderID, station).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Internal(err)
	}

	ticket := models.StationTicket{
		OrderID: orderID,
		Station: station,
		Status:  models.TicketPending,
	}
	if err := ts.DB.Create(&ticket).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &ticket, nil
}

// UpdateStatus moves the ticket to any member of the lifecycle set. The
// source system never enforced pending->preparing->ready->served ordering,
// and neither does this.
func (ts *TicketService) UpdateStatus(orderID uint, station, status string) (*models.StationTicket, error) {
	if !models.ValidTicketStatus(status) {
		return nil, utils.BadRequestf("invalid ticket status %q", status)
	}

	var ticket models.StationTicket
	if err := ts.DB.Where("order_id = ? AND station = ?", orderID, station).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("no %s ticket for order %d", station, orderID)
		}
		return nil, utils.Internal(err)
	}

	ticket.Status = status
	ticket.UpdatedAt = time.Now()
	if err := ts.DB.Save(&ticket).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &ticket, nil
}

// MarkServed is the direct-to-served convenience transition.
func (ts *TicketService) MarkServed(orderID uint, station string) (*models.StationTicket, error) {
	return ts.UpdateStatus(orderID, station, models.TicketServed)
}

// RemoveTicket deletes the (order, station) ticket. Absence is not an error.
func (ts *TicketService) RemoveTicket(orderID uint, station string) error {
	if err := ts.DB.Where("order_id = ? AND station = ?", orderID, station).
		Delete(&models.StationTicket{}).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// TicketWithOrder is the station display row: the ticket plus the order it
// tracks.
type TicketWithOrder struct {
	Ticket models.StationTicket `json:"ticket"`
	Order  models.Order         `json:"order"`
}

// ListTickets returns the station's open tickets with their order detail.
// The bar list only shows orders that actually contain a drink.
func (ts *TicketService) ListTickets(station string) ([]TicketWithOrder, error) {
	var tickets []models.StationTicket
	if err := ts.DB.Where("station = ?", station).Order("created_at asc").Find(&tickets).Error; err != nil {
		return nil, utils.Internal(err)
	}

	out := make([]TicketWithOrder, 0, len(tickets))
	for _, t := range tickets {
		var order models.Order
		if err := ts.DB.First(&order, t.OrderID).Error; err != nil {
			// Order deleted out from under the ticket; skip the row.
			continue
		}
		if station == models.StationBar && !HasDrink(order.Items) {
			continue
		}
		out = append(out, TicketWithOrder{Ticket: t, Order: order})
	}
	return out, nil
}

// Print statuses
const (
	PrintSuccess        = "success"
	PrintPartialSuccess = "partial_success"
	PrintFailed         = "failed"
)

// PrintResult aggregates per-station delivery outcomes.
type PrintResult struct {
	Results map[string]string `json:"results"`
	Status  string            `json:"status"`
}

// PrintTicket renders and dispatches the order's ticket to every
// sub-station its items touch. A sink failure is recorded per station;
// the call reports partial_success as long as one station got its copy.
func (ts *TicketService) PrintTicket(orderID uint) (*PrintResult, error) {
	var order models.Order
	if err := ts.DB.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundf("order %d not found", orderID)
		}
		return nil, utils.Internal(err)
	}

	stations := SubStationsFor(order.Items)
	if len(stations) == 0 {
		return nil, utils.BadRequestf("order %d has no items to print", orderID)
	}

	result := &PrintResult{Results: make(map[string]string, len(stations))}
	succeeded := 0
	for _, sub := range stations {
		station := models.StationKitchen
		if sub == SubStationBeverage {
			station = models.StationBar
		}
		var ticket *models.StationTicket
		var st models.StationTicket
		if err := ts.DB.Where("order_id = ? AND station = ?", orderID, station).First(&st).Error; err == nil {
			ticket = &st
		}

		rendered := RenderTicket(&order, ticket, sub)
		if err := ts.Sink.Deliver(sub, rendered); err != nil {
			utils.ErrorLogger.Printf("ticket delivery to %s failed for order %d: %v", sub, orderID, err)
			result.Results[sub] = "failed: " + err.Error()
			continue
		}
		result.Results[sub] = "success"
		succeeded++
	}

	switch {
	case succeeded == len(stations):
		result.Status = PrintSuccess
	case succeeded > 0:
		result.Status = PrintPartialSuccess
	default:
		result.Status = PrintFailed
	}
	return result, nil
}
