package streams

import (
	"sync"

	"dns-analytics/internal/models"
)

// RowCollector accumulates feature rows handed back by extraction
// workers so a single coordinator can flush them once the fan-out is
// done. Append is safe for concurrent use; Drain is not and must only be
// called after all appenders have finished.
type RowCollector struct {
	mu   sync.Mutex
	rows []models.FeatureRow
}

// NewRowCollector pre-sizes the collector for the expected row count.
func NewRowCollector(capacity int) *RowCollector {
	return &RowCollector{rows: make([]models.FeatureRow, 0, capacity)}
}

// Append adds a batch of rows from one worker.
func (c *RowCollector) Append(rows []models.FeatureRow) {
	if len(rows) == 0 {
		return
	}
	c.mu.Lock()
	c.rows = append(c.rows, rows...)
	c.mu.Unlock()
}

// Drain returns the collected rows and resets the collector.
func (c *RowCollector) Drain() []models.FeatureRow {
	rows := c.rows
	c.rows = nil
	return rows
}
