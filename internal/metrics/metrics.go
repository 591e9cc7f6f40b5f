// Package metrics exposes Prometheus instrumentation for the resolver:
// query counts, cache hit rate, and the depth of iterative resolution.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// QueriesTotal counts completed RecursiveQuery calls by result.
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dnswalker_queries_total", Help: "Total completed recursive queries"},
		[]string{"result"},
	)

	// QueryDuration observes wall-clock time for a full RecursiveQuery.
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "dnswalker_query_duration_seconds", Help: "Recursive query duration", Buckets: prometheus.DefBuckets},
		[]string{"qtype"},
	)

	// Iterations records how many referral hops a query needed before it
	// returned an answer, so a sudden rise is visible before it hits the
	// hard iteration cap. Queries that end without an answer are not
	// observed.
	Iterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "dnswalker_iterations", Help: "Referral hops per recursive query", Buckets: []float64{1, 2, 3, 4, 5, 8, 12, 16, 20}},
	)

	// CacheLookups counts cache reads by outcome.
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dnswalker_cache_lookups_total", Help: "Cache lookups by outcome"},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal, QueryDuration, Iterations, CacheLookups)
}

// ObserveQuery records the outcome and duration of one completed query.
func ObserveQuery(qtype string, result string, start time.Time) {
	QueriesTotal.WithLabelValues(result).Inc()
	QueryDuration.WithLabelValues(qtype).Observe(time.Since(start).Seconds())
}

// ObserveCacheLookup records a single cache read outcome ("hit" or "miss").
func ObserveCacheLookup(outcome string) {
	CacheLookups.WithLabelValues(outcome).Inc()
}
