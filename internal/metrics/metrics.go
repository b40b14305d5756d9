package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whitegate_provider_calls_total",
			Help: "Total forecast/tide provider API calls",
		},
		[]string{"provider", "endpoint", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "whitegate_provider_latency_seconds",
			Help:    "Provider API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "endpoint"},
	)

	BuildRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whitegate_build_runs_total",
			Help: "Total card build runs",
		},
		[]string{"card", "status"},
	)

	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "whitegate_build_duration_seconds",
			Help:    "Full build pipeline duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	WindowsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whitegate_windows_emitted_total",
			Help: "Total windows emitted into card payloads",
		},
		[]string{"card"},
	)
)
