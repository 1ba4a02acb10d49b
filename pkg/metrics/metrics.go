package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	TripSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trip_submissions_total",
			Help: "Trip submissions by outcome (accepted or the rejection reason)",
		},
		[]string{"result"},
	)

	OdometerGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "odometer_latest_miles",
			Help: "Start reading of the latest committed trip",
		},
	)

	MirrorFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_fetch_total",
			Help: "Spreadsheet mirror fetches by outcome",
		},
		[]string{"status"},
	)

	MirrorFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mirror_fetch_duration_seconds",
			Help:    "Spreadsheet mirror fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RelaySubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_submissions_total",
			Help: "Form relay submissions by outcome",
		},
		[]string{"status"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"backend", "operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "routing_key", "status"},
	)
)

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordTripSubmission counts one submission outcome.
func RecordTripSubmission(result string) {
	TripSubmissionsTotal.WithLabelValues(result).Inc()
}

// RecordMirrorFetch records a spreadsheet fetch.
func RecordMirrorFetch(err error, duration time.Duration) {
	MirrorFetchTotal.WithLabelValues(statusOf(err)).Inc()
	MirrorFetchDuration.Observe(duration.Seconds())
}

// RecordRelay records one relay attempt.
func RecordRelay(err error) {
	RelaySubmissionsTotal.WithLabelValues(statusOf(err)).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(backend, operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(backend, operation, statusOf(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, routingKey string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, routingKey, statusOf(err)).Inc()
}
