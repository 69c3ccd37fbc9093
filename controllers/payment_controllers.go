package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/satriajati/dinepos/hub"
	"github.com/satriajati/dinepos/middlewares"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

// ProcessPayment settles an order and returns the outcome with the invoice
// id when one was produced or already existed.
func (pc *PaymentController) ProcessPayment(c *gin.Context) {
	var req struct {
		OrderID     uint                   `json:"order_id" binding:"required"`
		PaymentType string                 `json:"payment_type" binding:"required"`
		Amount      float64                `json:"amount" binding:"required"`
		Details     map[string]interface{} `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	outcome, err := pc.Payments.ProcessPayment(req.OrderID, req.PaymentType, req.Amount)
	if err != nil {
		middlewares.RecordPayment(req.PaymentType, false)
		utils.RespondAppError(c, err)
		return
	}

	middlewares.RecordPayment(req.PaymentType, true)
	hub.BroadcastPayment(outcome)
	utils.InfoLogger.Printf("Order %d paid via %s (%.2f)", outcome.OrderID, outcome.PaymentType, outcome.Amount)
	utils.RespondJSON(c, http.StatusOK, "Payment processed", outcome)
}

// RefundPayment reverses a completed payment.
func (pc *PaymentController) RefundPayment(c *gin.Context) {
	var req struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Reason  string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := pc.Payments.RefundPayment(req.OrderID, req.Reason)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	hub.BroadcastPayment(order)
	utils.InfoLogger.Printf("Order %d refunded: %s", order.ID, req.Reason)
	utils.RespondJSON(c, http.StatusOK, "Payment refunded", order)
}

// GetSummary reports revenue and per-type breakdown for completed payments,
// optionally bounded by start/end query params (RFC 3339 or YYYY-MM-DD).
func (pc *PaymentController) GetSummary(c *gin.Context) {
	start, err := parseTimeParam(c.Query("start"))
	if err != nil {
		utils.RespondAppError(c, utils.BadRequestf("invalid start date"))
		return
	}
	end, err := parseTimeParam(c.Query("end"))
	if err != nil {
		utils.RespondAppError(c, utils.BadRequestf("invalid end date"))
		return
	}

	summary, err := pc.Payments.GetSummary(start, end)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment summary", summary)
}

func parseTimeParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
