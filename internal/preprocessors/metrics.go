package preprocessors

import (
	"dns-analytics/internal/shared/metrics"
)

// metricLinesDroppedTotal counts input lines rejected by the filter chain.
//
// The reason label carries the stable drop-reason name of the filter that
// rejected the line (e.g. "sep_not_found", "unknown_suffix",
// "negative_timestamp"). Exactly one reason is counted per dropped line:
// the first failing filter wins. Lines dropped here are not failures; the
// run continues and reports the per-reason totals in its summary.
//
// metricRecordsWrittenTotal counts records appended to the record stream.
//
// Incremented after a successful write, so lines_read equals
// records_written plus the sum of lines_dropped over all reasons.
var (
	metricLinesDroppedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPreprocess,
			Name:      "lines_dropped_total",
		},
		[]string{metrics.FieldReason},
	)

	metricRecordsWrittenTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubPreprocess,
			Name:      "records_written_total",
		},
	)
)
