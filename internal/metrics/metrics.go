package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rkt_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rkt_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rkt_orders_created_total",
		Help: "Orders accepted against stock",
	})

	OrdersCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rkt_orders_cancelled_total",
			Help: "Cancelled orders by whether stock was restored",
		},
		[]string{"restored"},
	)

	StockRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rkt_stock_rejections_total",
			Help: "Stock consumption attempts refused",
		},
		[]string{"reason"},
	)

	MetersConsumed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rkt_fabric_meters_consumed_total",
		Help: "Fabric meters taken out of inventory by orders",
	})

	MetersReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rkt_fabric_meters_received_total",
			Help: "Fabric meters added to inventory",
		},
		[]string{"source"},
	)

	BillsGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rkt_bills_generated_total",
		Help: "Bills generated from orders",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		OrdersCreated,
		OrdersCancelled,
		StockRejections,
		MetersConsumed,
		MetersReceived,
		BillsGenerated,
	)
}
