package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "generations_started_total",
			Help:      "Catalog query generations started",
		},
	)

	// GenerationsFinished counts generations by outcome: settled, failed or stale.
	GenerationsFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "catalog",
			Name:      "generations_finished_total",
			Help:      "Catalog query generations by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls to the catalog API",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		},
		[]string{"call", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served",
		},
		[]string{"route", "status"},
	)
)

func GenerationStarted() {
	GenerationsStarted.Inc()
}

func GenerationFinished(outcome string) {
	GenerationsFinished.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records one call to the catalog API.
func ObserveUpstream(call string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamDuration.WithLabelValues(call, result).Observe(d.Seconds())
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
