package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry holds the client's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookshelf",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of calls made to the book API.",
		},
		[]string{"method", "outcome"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookshelf",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls made to the book API.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method"},
	)
)

func init() {
	Registry.MustRegister(apiRequests, apiDuration)
}

func observeCall(method string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = string(KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}
	apiRequests.WithLabelValues(method, outcome).Inc()
	apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
