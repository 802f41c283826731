package extractors

import (
	"dns-analytics/internal/shared/metrics"
)

// metricDomainsProcessedTotal counts primary domains whose bucket has been
// fully extracted.
//
// Incremented once per domain when its worker finishes the window pass,
// before the rows are handed to the sink. A run over N distinct primary
// domains adds exactly N, regardless of worker count or feature modes.
//
// metricRowsEmittedTotal counts feature rows produced by extraction.
//
// Incremented per domain by the number of rows its bucket yielded; since
// every record yields exactly one row, a completed run adds the total
// record count. Rows are counted when produced, not when the sink accepts
// them, so a failed run may count rows that never reached the output.
var (
	metricDomainsProcessedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubExtraction,
			Name:      "domains_processed_total",
		},
	)

	metricRowsEmittedTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubExtraction,
			Name:      "rows_emitted_total",
		},
	)
)
