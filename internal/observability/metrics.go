package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pairing event labels.
const (
	PairingRequested = "requested"
	PairingIssued    = "issued"
	PairingDiscarded = "discarded"
	PairingCleared   = "cleared"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botpanel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "botpanel",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botpanel",
			Subsystem: "gateway",
			Name:      "upstream_requests_total",
			Help:      "Requests forwarded from the gateway to the panel backend.",
		},
		[]string{"node", "method", "path", "status", "success"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "botpanel",
			Subsystem: "gateway",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status", "success"},
	)
	pairingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "botpanel",
			Subsystem: "pairing",
			Name:      "events_total",
			Help:      "Pairing lifecycle events by kind.",
		},
		[]string{"node", "event"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, upstreamRequests, upstreamDuration, pairingEvents)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordUpstream(node, method, path string, status int, duration time.Duration, success bool) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	successLabel := strconv.FormatBool(success)
	upstreamRequests.WithLabelValues(node, method, path, statusLabel, successLabel).Inc()
	upstreamDuration.WithLabelValues(node, method, path, statusLabel, successLabel).
		Observe(duration.Seconds())
}

func RecordPairingEvent(node, event string) {
	RegisterMetrics()
	pairingEvents.WithLabelValues(node, event).Inc()
}
