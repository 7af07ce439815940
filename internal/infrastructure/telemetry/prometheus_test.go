package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, m *PrometheusMetrics, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := m.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return metric
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return nil
}

func TestPrometheusMetrics_Business(t *testing.T) {
	m := NewPrometheusMetrics()

	m.OrderCreated("store-a", 2, 1500)
	m.OrderCreated("store-a", 1, 250.25)
	m.OrderCreated("store-b", 1, 99)
	m.OrderCancelled("store-a")
	m.TransferCompleted(3)
	m.TransferCompleted(2)
	m.PurchaseOrderReceived(4200)
	m.PayrollGenerated(7, 1, 0)

	storeA := map[string]string{"store_id": "store-a"}
	assert.Equal(t, 2.0, findMetric(t, m, "backoffice_sales_orders_created_total", storeA).GetCounter().GetValue())
	assert.Equal(t, 3.0, findMetric(t, m, "backoffice_sales_pieces_sold_total", storeA).GetCounter().GetValue())
	assert.InDelta(t, 1750.25, findMetric(t, m, "backoffice_sales_revenue_total", storeA).GetCounter().GetValue(), 0.001)
	assert.Equal(t, 1.0, findMetric(t, m, "backoffice_sales_orders_cancelled_total", storeA).GetCounter().GetValue())
	assert.Equal(t, 5.0, findMetric(t, m, "backoffice_inventory_units_transferred_total", nil).GetCounter().GetValue())
	assert.Equal(t, 2.0, findMetric(t, m, "backoffice_inventory_transfers_completed_total", nil).GetCounter().GetValue())
	assert.Equal(t, 4200.0, findMetric(t, m, "backoffice_purchasing_spend_total", nil).GetCounter().GetValue())
	assert.Equal(t, 7.0, findMetric(t, m, "backoffice_payroll_records_total",
		map[string]string{"outcome": "created"}).GetCounter().GetValue())
}

func TestPrometheusMetrics_HTTPAndHandler(t *testing.T) {
	m := NewPrometheusMetrics()
	m.ObserveHTTPRequest("GET", "/api/v1/orders/:id", 200, 15*time.Millisecond)
	m.ObserveHTTPRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, findMetric(t, m, "backoffice_http_requests_total",
		map[string]string{"route": "unmatched", "status": "404"}).GetCounter().GetValue())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `backoffice_http_requests_total{method="GET",route="/api/v1/orders/:id",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
