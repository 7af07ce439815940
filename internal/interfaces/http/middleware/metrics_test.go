package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gemline/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func counterValue(t *testing.T, m *telemetry.PrometheusMetrics, route, status string) float64 {
	t.Helper()
	families, err := m.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "backoffice_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == route && labels["status"] == status {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestHTTPMetrics_Prometheus(t *testing.T) {
	m := telemetry.NewPrometheusMetrics()
	router := gin.New()
	router.Use(HTTPMetrics(HTTPMetricsConfig{Prometheus: m}))
	router.GET("/api/v1/orders/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/orders/1", "/api/v1/orders/2", "/nowhere", "/metrics"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// route templates, not raw paths
	assert.Equal(t, 2.0, counterValue(t, m, "/api/v1/orders/:id", "404"))
	assert.Equal(t, 1.0, counterValue(t, m, unmatchedRoute, "404"))
	assert.Zero(t, counterValue(t, m, "/metrics", "200"))
}

func TestSpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	router := gin.New()
	router.Use(RequestID(), func(c *gin.Context) {
		ctx, span := tp.Tracer("test").Start(c.Request.Context(), c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}, SpanAttributes())
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)

	var hasRequestID bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "request_id" && kv.Value.AsString() != "" {
			hasRequestID = true
		}
	}
	assert.True(t, hasRequestID)
}

func TestProfiling_LabelsRequestContext(t *testing.T) {
	router := gin.New()
	router.Use(Profiling())

	var labels map[string]string
	router.POST("/api/v1/purchase-orders/:id/receive", func(c *gin.Context) {
		labels = map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(k, v string) bool {
			labels[k] = v
			return true
		})
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders/7/receive", nil))
	assert.Equal(t, "purchase-orders", labels["resource"])
	assert.Equal(t, "POST", labels["method"])
	assert.Equal(t, "/api/v1/purchase-orders/:id/receive", labels["route"])
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "inventory", resourceOf("/api/v1/inventory/:warehouse_id/:product_id"))
	assert.Equal(t, "health", resourceOf("/health"))
	assert.Equal(t, "", resourceOf(""))
}
