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

	// Ride lifecycle
	RideTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_transitions_total",
			Help: "Total number of ride status transitions by target status",
		},
		[]string{"status"},
	)

	// Safety monitoring
	MonitoringSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safety_monitoring_sessions_active",
			Help: "Current number of running per-ride monitoring sessions",
		},
	)

	SafetyChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safety_checks_total",
			Help: "Total number of safety check results",
		},
		[]string{"result"}, // acknowledged | missed
	)

	SafetyEscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safety_escalations_total",
			Help: "Total number of rides escalated to SAFETY_ALERT",
		},
	)

	SafetyPromptLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "safety_prompt_response_seconds",
			Help:    "Time between a safety prompt and its resolution (answer or timeout)",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60},
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emergency_notifications_total",
			Help: "Total number of emergency notifications dispatched",
		},
		[]string{"sink", "status"},
	)

	WebSocketConnectionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"exchange", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordSafetyCheck records a single check outcome
func RecordSafetyCheck(responded bool) {
	result := "missed"
	if responded {
		result = "acknowledged"
	}
	SafetyChecksTotal.WithLabelValues(result).Inc()
}

// RecordNotification records an emergency notification dispatch
func RecordNotification(sink string, err error) {
	NotificationsTotal.WithLabelValues(sink, status(err)).Inc()
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(exchange, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
