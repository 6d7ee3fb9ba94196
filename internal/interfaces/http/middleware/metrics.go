package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saifghl/lms/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys for HTTP instruments
var (
	attrHTTPMethod = attribute.Key("http_method")
	attrHTTPRoute  = attribute.Key("http_route")
	attrHTTPStatus = attribute.Key("http_status_code")
)

type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	activeRequests  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	in := telemetry.NewInstruments(meter)
	m := &httpMetrics{
		requestTotal:    in.Counter("lms_http_server_request_total", "Total number of HTTP requests", "{request}"),
		requestDuration: in.Seconds("lms_http_server_request_duration_seconds", "HTTP request latency in seconds"),
		activeRequests:  in.UpDownCounter("lms_http_server_active_requests", "Number of in-flight HTTP requests", "{request}"),
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics records request count, latency and concurrency per route.
// It is a pass-through when the provider is nil or disabled.
func HTTPMetrics(provider *telemetry.MeterProvider) gin.HandlerFunc {
	if provider == nil || !provider.IsEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return HTTPMetricsWithMeter(provider.Meter("lms.http"))
}

// HTTPMetricsWithMeter records HTTP metrics on the given meter
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.activeRequests.Add(ctx, 1)

		c.Next()

		m.activeRequests.Add(ctx, -1)
		route := routePattern(c)
		method := attrHTTPMethod.String(c.Request.Method)
		m.requestTotal.Add(ctx, 1, metric.WithAttributes(
			method,
			attrHTTPRoute.String(route),
			attrHTTPStatus.Int(c.Writer.Status()),
		))
		m.requestDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(method, attrHTTPRoute.String(route)))
	}
}

// routePattern returns the matched route, keeping ids out of metric labels
func routePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
