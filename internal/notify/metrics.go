package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsTotal counts finished ingestion attempts per terminal status.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightwatch_ingestion_attempts_total",
			Help: "Total number of completed ingestion attempts",
		},
		[]string{"status"},
	)

	// FailuresTotal counts failed attempts per error category.
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightwatch_ingestion_failures_total",
			Help: "Total number of failed ingestion attempts",
		},
		[]string{"category"},
	)

	// RecordsTotal counts state vectors persisted to object storage.
	RecordsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flightwatch_ingested_records_total",
			Help: "Total number of state vectors written to storage",
		},
	)

	// AttemptDuration tracks end-to-end attempt duration.
	AttemptDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flightwatch_ingestion_duration_seconds",
			Help:    "Duration of ingestion attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
