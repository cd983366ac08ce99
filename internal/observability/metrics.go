package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	toolInvocationsTotal *prometheus.CounterVec
	toolLatencySeconds   *prometheus.HistogramVec
	canvasRequestsTotal  *prometheus.CounterVec
	canvasLatencySeconds *prometheus.HistogramVec
	canvasRetriesTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for server observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		toolInvocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Total number of tool invocations dispatched.",
		}, []string{"tool", "status"})

		toolLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tool_latency_seconds",
			Help:    "Latency distribution for tool invocations.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"tool"})

		canvasRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_requests_total",
			Help: "Total number of requests issued against the Canvas API.",
		}, []string{"method", "status"})

		canvasLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "canvas_request_latency_seconds",
			Help:    "Latency distribution for Canvas API requests.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 15.0},
		}, []string{"method"})

		canvasRetriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "canvas_retries_total",
			Help: "Total number of retry attempts after transient Canvas failures.",
		}, []string{"operation"})

		prometheus.MustRegister(toolInvocationsTotal, toolLatencySeconds, canvasRequestsTotal, canvasLatencySeconds, canvasRetriesTotal)
	})
}

// ToolInvocations exposes the counter for dispatched tool invocations.
func ToolInvocations() *prometheus.CounterVec {
	RegisterMetrics()
	return toolInvocationsTotal
}

// ToolLatency exposes the latency histogram for tool invocations.
func ToolLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return toolLatencySeconds
}

// CanvasRequests exposes the counter for outbound Canvas requests.
func CanvasRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return canvasRequestsTotal
}

// CanvasLatency exposes the latency histogram for outbound Canvas requests.
func CanvasLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return canvasLatencySeconds
}

// CanvasRetries exposes the counter for retried Canvas operations.
func CanvasRetries() *prometheus.CounterVec {
	RegisterMetrics()
	return canvasRetriesTotal
}
