package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/hub"
	"github.com/satriajati/dinepos/middlewares"
	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

type OrderController struct {
	DB      *gorm.DB
	Tickets *services.TicketService
}

func NewOrderController(db *gorm.DB, tickets *services.TicketService) *OrderController {
	return &OrderController{DB: db, Tickets: tickets}
}

// GetAllOrders lists orders, newest first.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Order("created_at desc").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder persists a submitted order, then fires the best-effort side
// effects: station tickets, and a table assignment for dine-in orders. A
// side-effect failure is logged and never fails the submission.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		Items         models.OrderItemList `json:"items" binding:"required"`
		Total         float64              `json:"total"`
		OrderType     string               `json:"order_type"`
		TableID       *uint                `json:"table_id"`
		TableNumber   *int                 `json:"table_number"`
		CustomerName  string               `json:"customer_name"`
		CustomerPhone string               `json:"customer_phone"`
		PaymentType   string               `json:"payment_type"`
		Notes         string               `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Items) == 0 {
		utils.RespondAppError(c, utils.BadRequestf("order needs at least one item"))
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = models.OrderDineIn
	}
	switch orderType {
	case models.OrderDineIn, models.OrderTakeaway, models.OrderDelivery:
	default:
		utils.RespondAppError(c, utils.BadRequestf("invalid order type %q", orderType))
		return
	}

	paymentType := req.PaymentType
	if paymentType == "" {
		paymentType = models.PayCash
	}
	if !models.ValidPaymentType(paymentType) {
		utils.RespondAppError(c, utils.BadRequestf("invalid payment type %q", paymentType))
		return
	}

	// The client-declared total is the stored truth; a disagreement with
	// the item sum is logged, not rejected.
	total := req.Total
	if total == 0 {
		total = req.Items.Sum()
	} else if total != req.Items.Sum() {
		utils.InfoLogger.Printf("declared total %.2f differs from item sum %.2f", total, req.Items.Sum())
	}

	tableID := req.TableID
	tableNumber := req.TableNumber
	if tableID == nil && tableNumber != nil {
		var table models.Table
		if err := oc.DB.Where("table_number = ?", *tableNumber).First(&table).Error; err == nil {
			tableID = &table.ID
		} else {
			utils.InfoLogger.Printf("table number %d not found while submitting order", *tableNumber)
		}
	} else if tableID != nil && tableNumber == nil {
		var table models.Table
		if err := oc.DB.First(&table, *tableID).Error; err == nil {
			tableNumber = &table.TableNumber
		}
	}

	order := models.Order{
		Items:         req.Items,
		TotalAmount:   total,
		OrderType:     orderType,
		TableID:       tableID,
		TableNumber:   tableNumber,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentType:   paymentType,
		PaymentStatus: models.PaymentPending,
		Notes:         req.Notes,
	}
	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	middlewares.RecordOrderCreated()
	hub.BroadcastOrderCreate(order)
	oc.dispatchTickets(&order)
	if orderType == models.OrderDineIn && tableID != nil {
		oc.assignTableForOrder(*tableID, &order)
	}

	utils.InfoLogger.Printf("Order %d created (%s, %.2f)", order.ID, order.OrderType, order.TotalAmount)
	utils.RespondJSON(c, http.StatusOK, "Order created", order)
}

// dispatchTickets routes the order to its stations: kitchen always, bar
// only when a line item classifies as a drink.
func (oc *OrderController) dispatchTickets(order *models.Order) {
	if ticket, err := oc.Tickets.CreateTicket(order.ID, models.StationKitchen); err != nil {
		utils.ErrorLogger.Printf("kitchen ticket creation failed for order %d: %v", order.ID, err)
	} else {
		middlewares.RecordTicketDispatched(models.StationKitchen)
		hub.BroadcastTicketCreate(*ticket)
	}

	if services.HasDrink(order.Items) {
		if ticket, err := oc.Tickets.CreateTicket(order.ID, models.StationBar); err != nil {
			utils.ErrorLogger.Printf("bar ticket creation failed for order %d: %v", order.ID, err)
		} else {
			middlewares.RecordTicketDispatched(models.StationBar)
			hub.BroadcastTicketCreate(*ticket)
		}
	}
}

// assignTableForOrder is the dine-in side effect: occupy the table and its
// seats for the new order. Failures are logged and swallowed.
func (oc *OrderController) assignTableForOrder(tableID uint, order *models.Order) {
	var table models.Table
	if err := oc.DB.First(&table, tableID).Error; err != nil {
		utils.ErrorLogger.Printf("table %d not found while assigning order %d", tableID, order.ID)
		return
	}
	if table.IsOccupied {
		utils.ErrorLogger.Printf("table %d already occupied, order %d left unassigned", table.TableNumber, order.ID)
		return
	}

	table.IsOccupied = true
	table.Status = models.TableOccupied
	table.CurrentOrderID = &order.ID
	for i := range table.Seats {
		table.Seats[i].Status = models.SeatOccupied
		table.Seats[i].CustomerName = order.CustomerName
	}
	table.UpdatedAt = time.Now()

	if err := oc.DB.Save(&table).Error; err != nil {
		utils.ErrorLogger.Printf("failed to assign table %d to order %d: %v", table.TableNumber, order.ID, err)
		return
	}
	hub.BroadcastTableUpdate(table)
	utils.InfoLogger.Printf("Table %d assigned to order %d", table.TableNumber, order.ID)
}

// GetOrderByID returns one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder patches the stored order fields supplied in the body.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order not found"))
		return
	}

	var req struct {
		Items         *models.OrderItemList `json:"items"`
		Total         *float64              `json:"total"`
		CustomerName  *string               `json:"customer_name"`
		CustomerPhone *string               `json:"customer_phone"`
		Notes         *string               `json:"notes"`
		AssignedSeats *models.IntList       `json:"assigned_seats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Items != nil {
		order.Items = *req.Items
	}
	if req.Total != nil {
		order.TotalAmount = *req.Total
	}
	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		order.CustomerPhone = *req.CustomerPhone
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.AssignedSeats != nil {
		order.AssignedSeats = *req.AssignedSeats
	}
	order.UpdatedAt = time.Now()

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder removes the order record. Tickets and invoices referencing it
// are left behind on purpose; they are owned independently.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	var order models.Order
	if err := oc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order not found"))
		return
	}
	if err := oc.DB.Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": order.ID})
}
