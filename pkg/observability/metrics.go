package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route, method and status code.",
	}, []string{"route", "method", "code"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "daylog",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
	generations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "insight",
		Name:      "generations_total",
		Help:      "Text generations by kind (summary, insight) and outcome (ok, fallback).",
	}, []string{"kind", "outcome"})
	lastCreated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "daylog",
		Subsystem: "store",
		Name:      "last_activity_created_timestamp_seconds",
		Help:      "Unix timestamp of the most recently stored activity.",
	})
	publishFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "daylog",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "activity.created events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, generations, lastCreated, publishFailures)
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(route, method string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// RecordGeneration counts a summary or insight generation.
func RecordGeneration(kind string, fallback bool) {
	outcome := "ok"
	if fallback {
		outcome = "fallback"
	}
	generations.WithLabelValues(kind, outcome).Inc()
}

// RecordActivityCreated updates the creation watermark.
func RecordActivityCreated(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastCreated.Set(float64(ts.Unix()))
}

// RecordPublishFailure counts a dropped event.
func RecordPublishFailure() {
	publishFailures.Inc()
}
