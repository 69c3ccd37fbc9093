package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satriajati/dinepos/hub"
	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

// TicketController exposes the kitchen and bar displays and their ticket
// lifecycle endpoints.
type TicketController struct {
	Tickets *services.TicketService
}

func NewTicketController(tickets *services.TicketService) *TicketController {
	return &TicketController{Tickets: tickets}
}

func (kc *TicketController) listOrders(c *gin.Context, station string) {
	rows, err := kc.Tickets.ListTickets(station)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Station orders", rows)
}

// GetKitchenOrders lists kitchen tickets with their orders.
func (kc *TicketController) GetKitchenOrders(c *gin.Context) {
	kc.listOrders(c, models.StationKitchen)
}

// GetBarOrders lists bar tickets; only drink-containing orders show here.
func (kc *TicketController) GetBarOrders(c *gin.Context) {
	kc.listOrders(c, models.StationBar)
}

func (kc *TicketController) createTicket(c *gin.Context, station string) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ticket, err := kc.Tickets.CreateTicket(orderID, station)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	hub.BroadcastTicketCreate(*ticket)
	utils.RespondJSON(c, http.StatusOK, "Ticket created", ticket)
}

// CreateKitchenTicket creates (or returns) the order's kitchen ticket.
func (kc *TicketController) CreateKitchenTicket(c *gin.Context) {
	kc.createTicket(c, models.StationKitchen)
}

// CreateBarTicket creates (or returns) the order's bar ticket.
func (kc *TicketController) CreateBarTicket(c *gin.Context) {
	kc.createTicket(c, models.StationBar)
}

func (kc *TicketController) updateStatus(c *gin.Context, station string) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ticket, err := kc.Tickets.UpdateStatus(orderID, station, req.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	hub.BroadcastTicketUpdate(*ticket)
	utils.InfoLogger.Printf("%s ticket for order %d moved to %s", station, orderID, ticket.Status)
	utils.RespondJSON(c, http.StatusOK, "Ticket status updated", ticket)
}

// UpdateKitchenStatus moves a kitchen ticket to a new lifecycle status.
func (kc *TicketController) UpdateKitchenStatus(c *gin.Context) {
	kc.updateStatus(c, models.StationKitchen)
}

// UpdateBarStatus moves a bar ticket to a new lifecycle status.
func (kc *TicketController) UpdateBarStatus(c *gin.Context) {
	kc.updateStatus(c, models.StationBar)
}

func (kc *TicketController) markServed(c *gin.Context, station string) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ticket, err := kc.Tickets.MarkServed(orderID, station)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	hub.BroadcastTicketUpdate(*ticket)
	utils.RespondJSON(c, http.StatusOK, "Ticket served", ticket)
}

// ServeKitchenOrder jumps a kitchen ticket straight to served.
func (kc *TicketController) ServeKitchenOrder(c *gin.Context) {
	kc.markServed(c, models.StationKitchen)
}

// ServeBarOrder jumps a bar ticket straight to served.
func (kc *TicketController) ServeBarOrder(c *gin.Context) {
	kc.markServed(c, models.StationBar)
}

func (kc *TicketController) removeTicket(c *gin.Context, station string) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := kc.Tickets.RemoveTicket(orderID, station); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket removed", gin.H{"order_id": orderID, "station": station})
}

// DeleteKitchenTicket drops the kitchen ticket; absence is not an error.
func (kc *TicketController) DeleteKitchenTicket(c *gin.Context) {
	kc.removeTicket(c, models.StationKitchen)
}

// DeleteBarTicket drops the bar ticket; absence is not an error.
func (kc *TicketController) DeleteBarTicket(c *gin.Context) {
	kc.removeTicket(c, models.StationBar)
}

// PrintTicket renders the order's tickets and pushes them to every prep
// station involved, reporting per-station results.
func (kc *TicketController) PrintTicket(c *gin.Context) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	result, err := kc.Tickets.PrintTicket(orderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ticket printed", result)
}
