// Package telemetry provides application-level observability for the catalog
// service: structured logging setup and Prometheus metrics.
//
// All metrics are registered against the default Prometheus registry and served
// on a side-channel HTTP server started by main.go:
//
//	GET http://<host>:<DFH_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090. The endpoint is not part of the Gin router, so the scrape
// path stays off the public ingress.
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/datadomains/:id)
// rather than the raw URL to prevent unbounded label cardinality from
// user-supplied path segments such as entity IDs.
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/data-fusion-hub/data-fusion-service/internal/safego"
)

// HTTP metrics, labelled by method, route template, and status code.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - p99 latency per route:             histogram_quantile(0.99, sum by (path, le) (rate(http_request_duration_seconds_bucket[5m])))
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Catalog workload metrics.
//
// LoginAttemptsTotal is a CounterVec with label {result} ("success" or "failure").
// The failure counter deliberately carries no email label so the metric cannot be
// used for user enumeration. An alert on a failure spike is a useful brute-force
// signal.
//
// BulkObjectsCreatedTotal counts data objects persisted through the bulk
// endpoint. A whole rejected batch contributes zero.
var (
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts, by result (success/failure).",
		},
		[]string{"result"},
	)

	BulkObjectsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bulk_objects_created_total",
			Help: "Total number of data objects created through the bulk endpoint.",
		},
	)
)

// DBOpenConnections is a Gauge tracking the number of open connections held by
// the sql.DB pool. It is sampled every 30 seconds by StartDBStatsCollector
// rather than per-request to avoid the overhead of sql.DB.Stats().
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB
// connection pool statistics every 30 seconds and updates the DBOpenConnections
// gauge. The goroutine exits when the database becomes unreachable, which
// happens when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go.
func StartDBStatsCollector(db *sql.DB) {
	safego.Go(func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	})
}
