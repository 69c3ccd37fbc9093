package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/utils"
)

func setupServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.Order{}, &models.StationTicket{}, &models.Invoice{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, items models.OrderItemList) *models.Order {
	t.Helper()
	order := models.Order{
		Items:         items,
		TotalAmount:   items.Sum(),
		OrderType:     models.OrderDineIn,
		PaymentType:   models.PayCash,
		PaymentStatus: models.PaymentPending,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return &order
}

func TestCreateTicketIdempotent(t *testing.T) {
	db := setupServiceDB(t, "ticket_idem")
	ts := NewTicketService(db, nil)
	order := seedOrder(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	first, err := ts.CreateTicket(order.ID, models.StationKitchen)
	assert.NoError(t, err)
	second, err := ts.CreateTicket(order.ID, models.StationKitchen)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.StationTicket{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateTicketOrderMissing(t *testing.T) {
	db := setupServiceDB(t, "ticket_missing")
	ts := NewTicketService(db, nil)

	_, err := ts.CreateTicket(999, models.StationKitchen)
	assert.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestUpdateStatusValidation(t *testing.T) {
	db := setupServiceDB(t, "ticket_status")
	ts := NewTicketService(db, nil)
	order := seedOrder(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})
	_, err := ts.CreateTicket(order.ID, models.StationKitchen)
	assert.NoError(t, err)

	_, err = ts.UpdateStatus(order.ID, models.StationKitchen, "burnt")
	assert.Error(t, err)
	assert.Equal(t, utils.KindBadRequest, utils.KindOf(err))

	// Any valid status may follow any other; jump straight to ready.
	ticket, err := ts.UpdateStatus(order.ID, models.StationKitchen, models.TicketReady)
	assert.NoError(t, err)
	assert.Equal(t, models.TicketReady, ticket.Status)

	// And back again.
	ticket, err = ts.UpdateStatus(order.ID, models.StationKitchen, models.TicketPending)
	assert.NoError(t, err)
	assert.Equal(t, models.TicketPending, ticket.Status)
}

func TestMarkServed(t *testing.T) {
	db := setupServiceDB(t, "ticket_served")
	ts := NewTicketService(db, nil)
	order := seedOrder(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})
	_, err := ts.CreateTicket(order.ID, models.StationKitchen)
	assert.NoError(t, err)

	ticket, err := ts.MarkServed(order.ID, models.StationKitchen)
	assert.NoError(t, err)
	assert.Equal(t, models.TicketServed, ticket.Status)
}

func TestRemoveTicketAbsentIsNoError(t *testing.T) {
	db := setupServiceDB(t, "ticket_remove")
	ts := NewTicketService(db, nil)

	assert.NoError(t, ts.RemoveTicket(12345, models.StationKitchen))
}

func TestListTicketsBarFiltered(t *testing.T) {
	db := setupServiceDB(t, "ticket_list")
	ts := NewTicketService(db, nil)

	drinkOrder := seedOrder(t, db, models.OrderItemList{{Name: "House Lager", Category: "beer", Price: 6}})
	foodOrder := seedOrder(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	_, err := ts.CreateTicket(drinkOrder.ID, models.StationBar)
	assert.NoError(t, err)
	// A bar ticket for a food-only order never shows on the display.
	_, err = ts.CreateTicket(foodOrder.ID, models.StationBar)
	assert.NoError(t, err)

	rows, err := ts.ListTickets(models.StationBar)
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, drinkOrder.ID, rows[0].Order.ID)
}

type flakySink struct {
	fail map[string]bool
}

func (s *flakySink) Deliver(subStation string, ticket string) error {
	if s.fail[subStation] {
		return errors.New("printer offline")
	}
	return nil
}

func TestPrintTicketAllStationsSucceed(t *testing.T) {
	db := setupServiceDB(t, "print_ok")
	ts := NewTicketService(db, &flakySink{})
	order := seedOrder(t, db, models.OrderItemList{
		{Name: "Ribeye", Category: "steak", Price: 28},
		{Name: "House Lager", Category: "beer", Price: 6},
	})

	result, err := ts.PrintTicket(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, PrintSuccess, result.Status)
	assert.Equal(t, "success", result.Results[SubStationGrill])
	assert.Equal(t, "success", result.Results[SubStationBeverage])
}

func TestPrintTicketPartialSuccess(t *testing.T) {
	db := setupServiceDB(t, "print_partial")
	ts := NewTicketService(db, &flakySink{fail: map[string]bool{SubStationBeverage: true}})
	order := seedOrder(t, db, models.OrderItemList{
		{Name: "Ribeye", Category: "steak", Price: 28},
		{Name: "House Lager", Category: "beer", Price: 6},
	})

	result, err := ts.PrintTicket(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, PrintPartialSuccess, result.Status)
	assert.Equal(t, "success", result.Results[SubStationGrill])
	assert.Contains(t, result.Results[SubStationBeverage], "failed")
}

func TestPrintTicketAllFail(t *testing.T) {
	db := setupServiceDB(t, "print_fail")
	ts := NewTicketService(db, &flakySink{fail: map[string]bool{SubStationMain: true}})
	order := seedOrder(t, db, models.OrderItemList{
		{Name: "Burger", Category: "food", Price: 12},
	})

	result, err := ts.PrintTicket(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, PrintFailed, result.Status)
}
