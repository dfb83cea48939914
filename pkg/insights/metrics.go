package insights

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var snapshotLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "spendpace",
	Subsystem: "insights",
	Name:      "snapshot_lookups_total",
	Help:      "Transaction snapshot lookups by cache result.",
}, []string{"result"})

var snapshotInvalidations = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "spendpace",
	Subsystem: "insights",
	Name:      "snapshot_invalidations_total",
	Help:      "Cached snapshots dropped after a data or settings change.",
})

var summaryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "spendpace",
	Subsystem: "insights",
	Name:      "computation_seconds",
	Help:      "Time spent computing a summary, snapshot fetch included.",
	Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
}, []string{"kind", "period"})
