package metrics

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizlytic",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bizlytic",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Ledger metrics
	recordsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "ledger",
			Name:      "records_written_total",
			Help:      "Total number of ledger writes by record kind and operation",
		},
		[]string{"kind", "operation"},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizlytic",
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Duration of report aggregations in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"report"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "report",
			Name:      "exports_total",
			Help:      "Total number of report exports by type and destination",
		},
		[]string{"report", "destination"},
	)

	// Billing metrics
	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "billing",
			Name:      "webhook_events_total",
			Help:      "Billing webhook events by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	subscriptionSyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "billing",
			Name:      "sync_total",
			Help:      "Scheduled subscription syncs by outcome",
		},
		[]string{"outcome"},
	)

	subscriptionSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bizlytic",
			Subsystem: "billing",
			Name:      "sync_duration_seconds",
			Help:      "Duration of a full subscription sync run in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// Realtime metrics
	realtimeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bizlytic",
			Subsystem: "realtime",
			Name:      "sessions",
			Help:      "Number of open realtime sessions",
		},
	)

	realtimeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlytic",
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Realtime events by outcome (delivered, dropped)",
		},
		[]string{"outcome"},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizlytic",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(rw.ResponseWriter).Hijack()
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWrite counts a create/update/delete of a sale, expense or calendar event
func RecordWrite(kind, operation string) {
	recordsWritten.WithLabelValues(kind, operation).Inc()
}

// RecordReport records how long an aggregation took
func RecordReport(report string, duration time.Duration) {
	reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordExport counts a report export
func RecordExport(report, destination string) {
	exportsTotal.WithLabelValues(report, destination).Inc()
}

// RecordWebhookEvent counts a billing webhook event by kind and outcome
func RecordWebhookEvent(kind, outcome string) {
	webhookEventsTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordSubscriptionSync records a scheduled subscription sync run
func RecordSubscriptionSync(outcome string, duration time.Duration) {
	subscriptionSyncTotal.WithLabelValues(outcome).Inc()
	subscriptionSyncDuration.Observe(duration.Seconds())
}

// SetRealtimeSessions sets the gauge for open realtime sessions
func SetRealtimeSessions(count int) {
	realtimeSessions.Set(float64(count))
}

// RecordRealtimeEvent counts a realtime event delivery attempt
func RecordRealtimeEvent(outcome string) {
	realtimeEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}
