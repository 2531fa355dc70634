package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MutationsTotal counts successful domain mutations by entity and action.
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ems_mutations_total",
			Help: "Total number of successful inventory/user mutations",
		},
		[]string{"entity", "action"},
	)

	// AuditAppendFailures counts audit appends that failed after a successful
	// mutation (the best-effort half of the pipeline).
	AuditAppendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ems_audit_append_failures_total",
			Help: "Total number of failed best-effort audit appends",
		},
	)

	// AccessDenied counts authorization rejections by operation.
	AccessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ems_access_denied_total",
			Help: "Total number of rejected authorization attempts",
		},
		[]string{"operation"},
	)

	// LoginAttempts counts logins by result (success, failure).
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ems_login_attempts_total",
			Help: "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// LowStockItems is the number of items below threshold at the last sweep.
	LowStockItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ems_low_stock_items",
			Help: "Number of items below their minimum threshold at the last alert sweep",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration, RequestTotal,
			MutationsTotal, AuditAppendFailures, AccessDenied, LoginAttempts, LowStockItems,
		)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}
