package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinepos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dinepos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	ordersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dinepos_orders_created_total",
			Help: "Total number of submitted orders",
		},
	)

	ticketsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinepos_tickets_dispatched_total",
			Help: "Total number of station tickets created",
		},
		[]string{"station"},
	)

	paymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dinepos_payments_processed_total",
			Help: "Total number of payment operations",
		},
		[]string{"type", "status"},
	)
)

// PrometheusMiddleware records request count and latency per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
	}
}

// RecordOrderCreated bumps the order submission counter.
func RecordOrderCreated() {
	ordersCreated.Inc()
}

// RecordTicketDispatched bumps the per-station ticket counter.
func RecordTicketDispatched(station string) {
	ticketsDispatched.WithLabelValues(station).Inc()
}

// RecordPayment bumps the payment counter.
func RecordPayment(paymentType string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	paymentsProcessed.WithLabelValues(paymentType, status).Inc()
}
