// Package metrics provides Prometheus metrics for the fern service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PeopleQueriesTotal tracks list/lookup queries by operation and cache outcome
	PeopleQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "people",
			Name:      "queries_total",
			Help:      "Total number of people read operations by cache outcome",
		},
		[]string{"operation", "cache"},
	)

	// PeopleWritesTotal tracks write operations by kind and result
	PeopleWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "people",
			Name:      "writes_total",
			Help:      "Total number of people write operations by kind and result",
		},
		[]string{"kind", "result"},
	)

	// EventsEmittedTotal tracks lifecycle events published to the bus
	EventsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fern",
			Subsystem: "events",
			Name:      "emitted_total",
			Help:      "Total number of people lifecycle events emitted",
		},
		[]string{"event_type"},
	)

	// QueryDuration tracks repository query duration in seconds
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fern",
			Subsystem: "people",
			Name:      "query_duration_seconds",
			Help:      "Duration of people repository queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)
)
