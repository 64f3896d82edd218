package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_mcp_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retail_mcp_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Tool metrics
	toolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_mcp_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool_name", "status"},
	)

	toolExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retail_mcp_tool_execution_duration_seconds",
			Help:    "Tool execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Database metrics
	queryFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_mcp_query_failures_total",
			Help: "Queries whose database error was reported in the result envelope",
		},
		[]string{"tool_name"},
	)

	// Embedding metrics
	embeddingCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_mcp_embedding_calls_total",
			Help: "Total number of embedding service calls",
		},
		[]string{"status"},
	)

	embeddingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retail_mcp_embedding_duration_seconds",
			Help:    "Embedding service call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordToolExecution records a tool execution
func RecordToolExecution(toolName, status string, duration time.Duration) {
	toolExecutionsTotal.WithLabelValues(toolName, status).Inc()
	toolExecutionDuration.WithLabelValues(toolName).Observe(duration.Seconds())
}

// RecordQueryFailure records a database error that was folded into a result
func RecordQueryFailure(toolName string) {
	queryFailuresTotal.WithLabelValues(toolName).Inc()
}

// RecordEmbeddingCall records one call to the embedding service
func RecordEmbeddingCall(status string, duration time.Duration) {
	embeddingCallsTotal.WithLabelValues(status).Inc()
	embeddingDuration.Observe(duration.Seconds())
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}
