package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/models"
	"github.com/satriajati/dinepos/router"
	"github.com/satriajati/dinepos/services"
	"github.com/satriajati/dinepos/utils"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T, name string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Table{}, &models.Order{}, &models.StationTicket{}, &models.Invoice{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return router.SetupRouter(db, services.NewConsoleSink(), nil)
}

func call(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return w.Code, resp
}

func decodeInto(t *testing.T, data json.RawMessage, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
}

// A party is seated, orders food and drinks, the stations work the tickets,
// and the bill is settled. The full dine-in flow through the HTTP surface.
func TestDineInServiceFlow(t *testing.T) {
	r := setupApp(t, "it_dinein")

	code, resp := call(t, r, http.MethodPost, "/tables", gin.H{"table_number": 1, "capacity": 4})
	assert.Equal(t, http.StatusOK, code)
	var table models.Table
	decodeInto(t, resp.Data, &table)

	// Submission creates the order, routes kitchen and bar tickets, and
	// occupies the table in one shot.
	code, resp = call(t, r, http.MethodPost, "/orders", gin.H{
		"items": []gin.H{
			{"name": "Ribeye", "category": "steak", "price": 28, "modifiers": []string{"medium rare"}},
			{"name": "House Lager", "category": "beer", "price": 6},
		},
		"order_type":    "dine_in",
		"table_number":  1,
		"customer_name": "Dewi",
	})
	assert.Equal(t, http.StatusOK, code)
	var order models.Order
	decodeInto(t, resp.Data, &order)
	assert.Equal(t, 34.0, order.TotalAmount)

	code, resp = call(t, r, http.MethodGet, fmt.Sprintf("/tables/%d", table.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	var seated models.Table
	decodeInto(t, resp.Data, &seated)
	assert.True(t, seated.IsOccupied)
	assert.Equal(t, order.ID, *seated.CurrentOrderID)

	// Both displays show the order.
	code, resp = call(t, r, http.MethodGet, "/kitchen/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	var kitchenRows []services.TicketWithOrder
	decodeInto(t, resp.Data, &kitchenRows)
	assert.Len(t, kitchenRows, 1)

	code, resp = call(t, r, http.MethodGet, "/bar/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	var barRows []services.TicketWithOrder
	decodeInto(t, resp.Data, &barRows)
	assert.Len(t, barRows, 1)

	// The stations work their tickets to served.
	code, _ = call(t, r, http.MethodPut, fmt.Sprintf("/kitchen/orders/%d", order.ID), gin.H{"status": "preparing"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPost, fmt.Sprintf("/kitchen/orders/%d/serve", order.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, r, http.MethodPost, fmt.Sprintf("/bar/orders/%d/serve", order.ID), nil)
	assert.Equal(t, http.StatusOK, code)

	// Settlement: wrong amount bounces without side effects, the exact
	// amount settles and synthesizes the invoice.
	code, _ = call(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id": order.ID, "payment_type": "card", "amount": 30.0,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = call(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id": order.ID, "payment_type": "card", "amount": 34.0,
	})
	assert.Equal(t, http.StatusOK, code)
	var outcome services.PaymentOutcome
	decodeInto(t, resp.Data, &outcome)
	assert.NotEmpty(t, outcome.Reference)
	assert.NotNil(t, outcome.InvoiceID)

	code, resp = call(t, r, http.MethodGet, fmt.Sprintf("/invoices/order/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	var invoice models.Invoice
	decodeInto(t, resp.Data, &invoice)
	assert.Equal(t, models.InvoicePaid, invoice.Status)
	assert.Regexp(t, `^INV-\d{6}-\d{4}$`, invoice.InvoiceNumber)

	// Paying twice is rejected and no second invoice appears.
	code, _ = call(t, r, http.MethodPost, "/payments/process", gin.H{
		"order_id": order.ID, "payment_type": "cash", "amount": 34.0,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// The table frees up after the party leaves.
	code, _ = call(t, r, http.MethodPost, fmt.Sprintf("/tables/%d/release", table.ID), nil)
	assert.Equal(t, http.StatusOK, code)
}

// A food-only takeaway order never reaches the bar display.
func TestTakeawayFoodOnlyFlow(t *testing.T) {
	r := setupApp(t, "it_takeaway")

	code, resp := call(t, r, http.MethodPost, "/orders", gin.H{
		"items":      []gin.H{{"name": "Club Sandwich", "category": "food", "price": 9}},
		"order_type": "takeaway",
	})
	assert.Equal(t, http.StatusOK, code)
	var order models.Order
	decodeInto(t, resp.Data, &order)

	code, resp = call(t, r, http.MethodGet, "/bar/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	var barRows []services.TicketWithOrder
	decodeInto(t, resp.Data, &barRows)
	assert.Empty(t, barRows)

	code, resp = call(t, r, http.MethodGet, "/kitchen/orders", nil)
	assert.Equal(t, http.StatusOK, code)
	var kitchenRows []services.TicketWithOrder
	decodeInto(t, resp.Data, &kitchenRows)
	assert.Len(t, kitchenRows, 1)
	assert.Equal(t, order.ID, kitchenRows[0].Order.ID)
}

// Two parties merge onto one table and later split the combined bill.
func TestMergeThenSplitFlow(t *testing.T) {
	r := setupApp(t, "it_merge_split")

	code, resp := call(t, r, http.MethodPost, "/tables", gin.H{"table_number": 1, "capacity": 2})
	assert.Equal(t, http.StatusOK, code)
	var tableA models.Table
	decodeInto(t, resp.Data, &tableA)

	code, resp = call(t, r, http.MethodPost, "/tables", gin.H{"table_number": 2, "capacity": 2})
	assert.Equal(t, http.StatusOK, code)
	var tableB models.Table
	decodeInto(t, resp.Data, &tableB)

	code, resp = call(t, r, http.MethodPost, "/orders", gin.H{
		"items":        []gin.H{{"name": "Burger", "category": "food", "price": 12}},
		"table_number": 1,
	})
	assert.Equal(t, http.StatusOK, code)
	var orderA models.Order
	decodeInto(t, resp.Data, &orderA)

	code, resp = call(t, r, http.MethodPost, "/orders", gin.H{
		"items":        []gin.H{{"name": "Pasta", "category": "food", "price": 10}},
		"table_number": 2,
	})
	assert.Equal(t, http.StatusOK, code)
	var orderB models.Order
	decodeInto(t, resp.Data, &orderB)

	code, resp = call(t, r, http.MethodPost, fmt.Sprintf("/tables/merge-tables/%d/%d", tableA.ID, tableB.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	var merged models.Table
	decodeInto(t, resp.Data, &merged)
	assert.Equal(t, 4, merged.Capacity)

	code, resp = call(t, r, http.MethodGet, fmt.Sprintf("/orders/%d", orderA.ID), nil)
	assert.Equal(t, http.StatusOK, code)
	var combined models.Order
	decodeInto(t, resp.Data, &combined)
	assert.Equal(t, 22.0, combined.TotalAmount)
	assert.Len(t, combined.Items, 2)

	code, resp = call(t, r, http.MethodPost, fmt.Sprintf("/tables/%d/split-bill", tableA.ID), gin.H{
		"method": "equal",
		"parts":  2,
	})
	assert.Equal(t, http.StatusOK, code)
	var splits []models.Order
	decodeInto(t, resp.Data, &splits)
	assert.Len(t, splits, 2)

	var total float64
	for _, s := range splits {
		total += s.TotalAmount
	}
	assert.Equal(t, combined.TotalAmount, total)
}

// Seat-level churn: guests trickle in and out, and the table releases itself
// when the last one leaves.
func TestSeatChurnFlow(t *testing.T) {
	r := setupApp(t, "it_seats")

	code, resp := call(t, r, http.MethodPost, "/tables", gin.H{"table_number": 1, "capacity": 3})
	assert.Equal(t, http.StatusOK, code)
	var table models.Table
	decodeInto(t, resp.Data, &table)

	for seat := 1; seat <= 3; seat++ {
		code, _ = call(t, r, http.MethodPost, fmt.Sprintf("/tables/%d/assign-seat/%d", table.ID, seat), nil)
		assert.Equal(t, http.StatusOK, code)
	}

	var state models.Table
	for seat := 1; seat <= 3; seat++ {
		code, resp = call(t, r, http.MethodPost, fmt.Sprintf("/tables/%d/release-seat/%d", table.ID, seat), nil)
		assert.Equal(t, http.StatusOK, code)
		decodeInto(t, resp.Data, &state)
		assert.Equal(t, seat == 3, !state.IsOccupied)
	}
	assert.Equal(t, models.TableAvailable, state.Status)
}

func TestPingAndMetrics(t *testing.T) {
	r := setupApp(t, "it_ping")

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dinepos_http_requests_total")
}
