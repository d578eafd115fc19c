package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	followUpsScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_scheduled_total",
			Help: "Total number of follow-ups scheduled",
		},
	)

	followUpsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_sent_total",
			Help: "Total number of follow-ups sent",
		},
	)

	followUpsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_cancelled_total",
			Help: "Total number of follow-ups cancelled by an incoming reply",
		},
	)

	draftsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drafts_generated_total",
			Help: "Total number of AI drafts generated",
		},
		[]string{"kind"}, // follow-up, chain-reply
	)

	repliesReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "replies_reconciled_total",
			Help: "Total number of inbound replies reconciled",
		},
	)

	jobsDeadLettered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_dead_lettered_total",
			Help: "Total number of queue jobs moved to the DLQ",
		},
		[]string{"kind"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordFollowUpScheduled() {
	followUpsScheduled.Inc()
}

func RecordFollowUpSent() {
	followUpsSent.Inc()
}

func RecordFollowUpsCancelled(n int) {
	followUpsCancelled.Add(float64(n))
}

func RecordDraftGenerated(kind string) {
	draftsGenerated.WithLabelValues(kind).Inc()
}

func RecordReplyReconciled() {
	repliesReconciled.Inc()
}

func RecordJobDeadLettered(kind string) {
	jobsDeadLettered.WithLabelValues(kind).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
