package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics mirrors the engine counters into prometheus.
type Metrics struct {
	ScannedRangePoints prometheus.Counter
	ScannedListPoints  prometheus.Counter
	Queries            *prometheus.CounterVec
	QueryLatency       prometheus.Histogram
}

// NewMetrics creates the engine metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string, engineId string) *Metrics {

	labels := prometheus.Labels{"engine": engineId}

	scannedRange := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "scanned_range_points_total",
		Help:        "Positions scanned through index ranges",
		ConstLabels: labels,
	})

	scannedList := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "scanned_list_points_total",
		Help:        "Positions scanned through index lists",
		ConstLabels: labels,
	})

	queries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "queries_total",
		Help:        "Executed queries by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "query_latency_seconds",
		Help:        "Query execution latency",
		ConstLabels: labels,
		Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 12),
	})

	reg.MustRegister(scannedRange, scannedList, queries, latency)

	return &Metrics{
		ScannedRangePoints: scannedRange,
		ScannedListPoints:  scannedList,
		Queries:            queries,
		QueryLatency:       latency,
	}
}

const (
	outcomeScanned  = "scanned"
	outcomeEmpty    = "empty"
	outcomeResolved = "resolved"
)
