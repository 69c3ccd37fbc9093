package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/satriajati/dinepos/controllers"
	"github.com/satriajati/dinepos/middlewares"
	"github.com/satriajati/dinepos/services"
)

// SetupRouter wires every endpoint. The ticket sink and cache are optional;
// passing nil falls back to the console sink and no caching.
func SetupRouter(db *gorm.DB, sink services.StationSink, cache *services.Cache) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	ticketSvc := services.NewTicketService(db, sink)
	invoiceSvc := services.NewInvoiceService(db)
	paymentSvc := services.NewPaymentService(db, invoiceSvc, cache)

	tableCtrl := controllers.NewTableController(db)
	orderCtrl := controllers.NewOrderController(db, ticketSvc)
	ticketCtrl := controllers.NewTicketController(ticketSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)
	invoiceCtrl := controllers.NewInvoiceController(db, invoiceSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// TABLES
	r.POST("/tables", tableCtrl.CreateTable)
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/stats", tableCtrl.GetTableStats)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	r.POST("/tables/:table_id/assign/:order_id", tableCtrl.AssignTable)
	r.POST("/tables/:table_id/release", tableCtrl.ReleaseTable)
	r.POST("/tables/:table_id/assign-seat/:seat_number", tableCtrl.AssignSeat)
	r.POST("/tables/:table_id/release-seat/:seat_number", tableCtrl.ReleaseSeat)
	r.PATCH("/tables/:table_id/capacity", tableCtrl.ResizeCapacity)
	r.POST("/tables/merge-tables/:table_a/:table_b", tableCtrl.MergeTables)
	r.POST("/tables/:table_id/split-bill", tableCtrl.SplitBill)

	// ORDERS
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PUT("/orders/:order_id", orderCtrl.UpdateOrder)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	// KITCHEN
	r.GET("/kitchen/orders", ticketCtrl.GetKitchenOrders)
	r.POST("/kitchen/orders/:order_id", ticketCtrl.CreateKitchenTicket)
	r.PUT("/kitchen/orders/:order_id", ticketCtrl.UpdateKitchenStatus)
	r.POST("/kitchen/orders/:order_id/serve", ticketCtrl.ServeKitchenOrder)
	r.DELETE("/kitchen/orders/:order_id", ticketCtrl.DeleteKitchenTicket)
	r.POST("/kitchen/orders/:order_id/print-kot", ticketCtrl.PrintTicket)

	// BAR
	r.GET("/bar/orders", ticketCtrl.GetBarOrders)
	r.POST("/bar/orders/:order_id", ticketCtrl.CreateBarTicket)
	r.PUT("/bar/orders/:order_id", ticketCtrl.UpdateBarStatus)
	r.POST("/bar/orders/:order_id/serve", ticketCtrl.ServeBarOrder)
	r.DELETE("/bar/orders/:order_id", ticketCtrl.DeleteBarTicket)

	// PAYMENTS
	r.POST("/payments/process", paymentCtrl.ProcessPayment)
	r.POST("/payments/refund", paymentCtrl.RefundPayment)
	r.GET("/payments/summary", paymentCtrl.GetSummary)

	// INVOICES
	r.POST("/invoices", invoiceCtrl.CreateInvoice)
	r.GET("/invoices", invoiceCtrl.GetAllInvoices)
	r.GET("/invoices/:invoice_id", invoiceCtrl.GetInvoiceByID)
	r.GET("/invoices/order/:order_id", invoiceCtrl.GetInvoiceByOrder)
	r.PUT("/invoices/:invoice_id", invoiceCtrl.UpdateInvoice)
	r.DELETE("/invoices/:invoice_id", invoiceCtrl.DeleteInvoice)

	// Station displays
	r.GET("/ws/:station", controllers.DisplayHandler)

	return r
}
