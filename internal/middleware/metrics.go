package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/data-fusion-hub/data-fusion-service/internal/telemetry"
)

// MetricsMiddleware records two Prometheus metrics for every request:
//
//   - http_requests_total{method, path, status}
//   - http_request_duration_seconds{method, path}
//
// The path label is set from c.FullPath(), the matched route template
// (e.g. /api/v1/datadomains/:id) rather than the raw URL, so IDs never
// inflate label cardinality. Requests matching no registered route use the
// literal string "<no-route>".
//
// Register after gin.Recovery() and RequestIDMiddleware so the status set by
// error handlers is captured correctly.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		status := fmt.Sprintf("%d", c.Writer.Status())

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
