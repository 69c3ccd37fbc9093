package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/services"
)

func TestProcessPaymentEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, "ctrl_pay_process")
	order := seedOrderRow(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	w, env := doRequest(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id":     order.ID,
		"payment_type": models.PayCard,
		"amount":       12.0,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var outcome services.PaymentOutcome
	assert.NoError(t, json.Unmarshal(env.Data, &outcome))
	assert.Equal(t, order.ID, outcome.OrderID)
	assert.Contains(t, outcome.Reference, "PAY-card-")
	assert.NotNil(t, outcome.InvoiceID)

	// The invoice is retrievable by order and marked paid.
	w, env = doRequest(t, r, http.MethodGet, fmt.Sprintf("/invoices/order/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var invoice models.Invoice
	assert.NoError(t, json.Unmarshal(env.Data, &invoice))
	assert.Equal(t, models.InvoicePaid, invoice.Status)
	assert.Equal(t, 12.0, invoice.Total)
}

func TestProcessPaymentWrongAmount(t *testing.T) {
	r, db := setupTestRouter(t, "ctrl_pay_amount")
	order := seedOrderRow(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	w, _ := doRequest(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id":     order.ID,
		"payment_type": models.PayCash,
		"amount":       10.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Order
	assert.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.PaymentPending, reloaded.PaymentStatus)
}

func TestRefundEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, "ctrl_pay_refund")
	order := seedOrderRow(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	w, _ := doRequest(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id":     order.ID,
		"payment_type": models.PayCash,
		"amount":       12.0,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doRequest(t, r, http.MethodPost, "/payments/refund", gin.H{
		"order_id": order.ID,
		"reason":   "cold food",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var refunded models.Order
	assert.NoError(t, json.Unmarshal(env.Data, &refunded))
	assert.Equal(t, models.RefundCompleted, refunded.RefundStatus)
	assert.Equal(t, "cold food", refunded.RefundReason)
}

func TestSummaryEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, "ctrl_pay_summary")
	first := seedOrderRow(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})
	second := seedOrderRow(t, db, models.OrderItemList{{Name: "Mojito", Category: "cocktail", Price: 8}})

	for _, o := range []*models.Order{first, second} {
		w, _ := doRequest(t, r, http.MethodPost, "/payments/process", gin.H{
			"order_id":     o.ID,
			"payment_type": models.PayCash,
			"amount":       o.TotalAmount,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w, env := doRequest(t, r, http.MethodGet, "/payments/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var summary services.Summary
	assert.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 20.0, summary.TotalRevenue)
	assert.Equal(t, int64(2), summary.Transactions)

	w, _ = doRequest(t, r, http.MethodGet, "/payments/summary?start=not-a-date", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoiceEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, "ctrl_invoice_create")
	order := seedOrderRow(t, db, models.OrderItemList{{Name: "Burger", Category: "food", Price: 12}})

	w, env := doRequest(t, r, http.MethodPost, "/invoices", gin.H{
		"order_id":      order.ID,
		"customer_name": "Dewi",
		"tax":           1.2,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var invoice models.Invoice
	assert.NoError(t, json.Unmarshal(env.Data, &invoice))
	assert.Equal(t, "Dewi", invoice.CustomerName)
	assert.Equal(t, 12.0, invoice.Subtotal)
	assert.Equal(t, 13.2, invoice.Total)
	assert.Regexp(t, `^INV-\d{6}-\d{4}$`, invoice.InvoiceNumber)

	// Second invoice for the same order is rejected.
	w, _ = doRequest(t, r, http.MethodPost, "/invoices", gin.H{"order_id": order.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
