package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

type InvoiceController struct {
	DB       *gorm.DB
	Invoices *services.InvoiceService
}

func NewInvoiceController(db *gorm.DB, invoices *services.InvoiceService) *InvoiceController {
	return &InvoiceController{DB: db, Invoices: invoices}
}

// CreateInvoice builds the order's invoice explicitly, ahead of payment.
// Customer fields in the body override the ones copied from the order.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	var req struct {
		OrderID       uint    `json:"order_id" binding:"required"`
		CustomerName  string  `json:"customer_name"`
		CustomerPhone string  `json:"customer_phone"`
		Tax           float64 `json:"tax"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := ic.DB.First(&order, req.OrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("order %d not found", req.OrderID))
		return
	}

	invoice, err := ic.Invoices.CreateForOrder(&order, req.Tax)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	changed := false
	if req.CustomerName != "" {
		invoice.CustomerName = req.CustomerName
		changed = true
	}
	if req.CustomerPhone != "" {
		invoice.CustomerPhone = req.CustomerPhone
		changed = true
	}
	if changed {
		if err := ic.DB.Save(invoice).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.InfoLogger.Printf("Invoice %s created for order %d", invoice.InvoiceNumber, order.ID)
	utils.RespondJSON(c, http.StatusOK, "Invoice created", invoice)
}

// GetAllInvoices lists invoices, newest first.
func (ic *InvoiceController) GetAllInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := ic.DB.Order("created_at desc").Find(&invoices).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of invoices", invoices)
}

// GetInvoiceByID returns one invoice.
func (ic *InvoiceController) GetInvoiceByID(c *gin.Context) {
	var invoice models.Invoice
	if err := ic.DB.First(&invoice, c.Param("invoice_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("invoice not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice detail", invoice)
}

// GetInvoiceByOrder returns the invoice for an order.
func (ic *InvoiceController) GetInvoiceByOrder(c *gin.Context) {
	orderID, err := parseID(c, "order_id")
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	invoice, err := ic.Invoices.GetByOrder(orderID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice detail", invoice)
}

// UpdateInvoice patches the billing fields.
func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	var invoice models.Invoice
	if err := ic.DB.First(&invoice, c.Param("invoice_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("invoice not found"))
		return
	}

	var req struct {
		CustomerName  *string  `json:"customer_name"`
		CustomerPhone *string  `json:"customer_phone"`
		Tax           *float64 `json:"tax"`
		Status        *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CustomerName != nil {
		invoice.CustomerName = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		invoice.CustomerPhone = *req.CustomerPhone
	}
	if req.Tax != nil {
		invoice.Tax = *req.Tax
		invoice.Total = invoice.Subtotal + invoice.Tax
	}
	if req.Status != nil {
		switch *req.Status {
		case models.InvoiceUnpaid, models.InvoicePaid, models.InvoiceRefunded:
			invoice.Status = *req.Status
		default:
			utils.RespondAppError(c, utils.BadRequestf("invalid invoice status %q", *req.Status))
			return
		}
	}
	invoice.UpdatedAt = time.Now()

	if err := ic.DB.Save(&invoice).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice updated", invoice)
}

// DeleteInvoice removes an invoice independently of its order.
func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	var invoice models.Invoice
	if err := ic.DB.First(&invoice, c.Param("invoice_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NotFoundf("invoice not found"))
		return
	}
	if err := ic.DB.Delete(&invoice).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Invoice deleted", gin.H{"id": invoice.ID})
}
