package middleware

import (
	"time"

	"github.com/gemline/backoffice/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests that hit no route, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// HTTPMetricsConfig selects where request metrics go. Either sink may be nil.
type HTTPMetricsConfig struct {
	// Prometheus receives pull metrics served on /metrics
	Prometheus *telemetry.PrometheusMetrics
	// Meter pushes through the OTLP pipeline; nil uses the global provider
	Meter metric.Meter
	// OTLP enables the push instruments
	OTLP bool
}

// HTTPMetrics records request count and latency by method, route and status
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	var (
		duration metric.Float64Histogram
		inflight metric.Int64UpDownCounter
	)
	if cfg.OTLP {
		meter := cfg.Meter
		if meter == nil {
			meter = otel.Meter("github.com/gemline/backoffice/http")
		}
		duration, _ = meter.Float64Histogram("http.server.request.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of HTTP server requests"))
		inflight, _ = meter.Int64UpDownCounter("http.server.active_requests",
			metric.WithDescription("In-flight HTTP server requests"))
	}

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		start := time.Now()
		ctx := c.Request.Context()
		if inflight != nil {
			inflight.Add(ctx, 1)
			defer inflight.Add(ctx, -1)
		}

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)

		if cfg.Prometheus != nil {
			cfg.Prometheus.ObserveHTTPRequest(c.Request.Method, route, status, elapsed)
		}
		if duration != nil {
			duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", status),
			))
		}
	}
}
