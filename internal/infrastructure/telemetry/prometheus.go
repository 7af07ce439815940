package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Namespace prefixes every exported prometheus metric
const Namespace = "backoffice"

// PrometheusMetrics holds the pull metrics served on /metrics: HTTP traffic
// plus business counters fed by the domain event handlers.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	ordersCreated      *prometheus.CounterVec
	ordersCancelled    *prometheus.CounterVec
	salesRevenue       *prometheus.CounterVec
	piecesSold         *prometheus.CounterVec
	transfersCompleted prometheus.Counter
	unitsTransferred   prometheus.Counter
	purchasesReceived  prometheus.Counter
	purchaseSpend      prometheus.Counter
	payrollsGenerated  *prometheus.CounterVec
}

// NewPrometheusMetrics creates the metrics on a private registry together
// with the Go runtime and process collectors.
func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "http", Name: "requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace, Subsystem: "http", Name: "request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.ordersCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sales", Name: "orders_created_total",
		Help: "Sales orders recorded, by store.",
	}, []string{"store_id"})
	m.ordersCancelled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sales", Name: "orders_cancelled_total",
		Help: "Sales orders cancelled, by store.",
	}, []string{"store_id"})
	m.salesRevenue = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sales", Name: "revenue_total",
		Help: "Gross revenue of recorded sales orders, by store.",
	}, []string{"store_id"})
	m.piecesSold = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "sales", Name: "pieces_sold_total",
		Help: "Pieces sold, by store.",
	}, []string{"store_id"})
	m.transfersCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "inventory", Name: "transfers_completed_total",
		Help: "Inventory transfers completed.",
	})
	m.unitsTransferred = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "inventory", Name: "units_transferred_total",
		Help: "Units moved between warehouses by completed transfers.",
	})
	m.purchasesReceived = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "purchasing", Name: "orders_received_total",
		Help: "Purchase orders received into stock.",
	})
	m.purchaseSpend = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "purchasing", Name: "spend_total",
		Help: "Total value of received purchase orders.",
	})
	m.payrollsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace, Subsystem: "payroll", Name: "records_total",
		Help: "Payroll records handled by generation runs, by outcome.",
	}, []string{"outcome"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.ordersCreated, m.ordersCancelled, m.salesRevenue, m.piecesSold,
		m.transfersCompleted, m.unitsTransferred,
		m.purchasesReceived, m.purchaseSpend,
		m.payrollsGenerated,
	)
	return m
}

// Handler serves the registry in the prometheus text format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gather collects all metric families (for testing)
func (m *PrometheusMetrics) Gather() ([]*dto.MetricFamily, error) {
	return m.registry.Gather()
}

// ObserveHTTPRequest records one served request. route is the gin route
// template so path parameters don't explode label cardinality.
func (m *PrometheusMetrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OrderCreated records a sale
func (m *PrometheusMetrics) OrderCreated(storeID string, pieces int, amount float64) {
	m.ordersCreated.WithLabelValues(storeID).Inc()
	m.piecesSold.WithLabelValues(storeID).Add(float64(pieces))
	m.salesRevenue.WithLabelValues(storeID).Add(amount)
}

// OrderCancelled records a voided sale
func (m *PrometheusMetrics) OrderCancelled(storeID string) {
	m.ordersCancelled.WithLabelValues(storeID).Inc()
}

// TransferCompleted records stock moved between warehouses
func (m *PrometheusMetrics) TransferCompleted(quantity int) {
	m.transfersCompleted.Inc()
	m.unitsTransferred.Add(float64(quantity))
}

// PurchaseOrderReceived records goods booked in from a supplier
func (m *PrometheusMetrics) PurchaseOrderReceived(amount float64) {
	m.purchasesReceived.Inc()
	m.purchaseSpend.Add(amount)
}

// PayrollGenerated records the outcome counts of a generation run
func (m *PrometheusMetrics) PayrollGenerated(created, skipped, failed int) {
	m.payrollsGenerated.WithLabelValues("created").Add(float64(created))
	m.payrollsGenerated.WithLabelValues("skipped").Add(float64(skipped))
	m.payrollsGenerated.WithLabelValues("failed").Add(float64(failed))
}
