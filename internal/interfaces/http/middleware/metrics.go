package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/dms/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count, duration and in-flight gauge for
// every route
type HTTPMetrics struct {
	requestsTotal   *telemetry.Counter
	requestDuration *telemetry.Histogram
	requestsActive  *telemetry.FloatGauge
	inflight        atomic.Int64
	logger          *zap.Logger
}

// NewHTTPMetrics creates the HTTP server metric instruments
func NewHTTPMetrics(meter metric.Meter, logger *zap.Logger) (*HTTPMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	requestsTotal, err := telemetry.NewCounter(meter,
		"http.server.requests", "Total HTTP requests served", "{request}")
	if err != nil {
		return nil, err
	}

	requestDuration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http.server.duration",
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	requestsActive, err := telemetry.NewFloatGauge(meter,
		"http.server.active_requests", "In-flight HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
		requestsActive:  requestsActive,
		logger:          logger,
	}, nil
}

// Handler returns the gin middleware recording the instruments
func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		m.requestsActive.Record(ctx, float64(m.inflight.Add(1)))

		c.Next()

		m.requestsActive.Record(ctx, float64(m.inflight.Add(-1)))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
			telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()),
		}
		m.requestsTotal.Inc(ctx, attrs...)
		m.requestDuration.RecordDuration(ctx, time.Since(start), attrs...)
	}
}
