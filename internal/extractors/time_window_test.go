package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeWindow_AccumulatesWithinDuration(t *testing.T) {
	t.Parallel()

	w := NewTimeWindow(1.0, 10)

	v := w.ProcessEntry(0, 0.0, payload("abcd"))
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 1, v.NUniqueLabels)
	assert.InDelta(t, 1.0, v.UniqueQueryRate, 1e-12)
	assert.InDelta(t, 4.0, v.UniqueTransferRate, 1e-12)
	assert.InDelta(t, 4.0, v.AvgUniqueLabelLength, 1e-12)
	assert.Equal(t, 4, v.MaxLabelLength)
	assert.InDelta(t, 1.0, v.UniqueQueryRatio, 1e-12)
	// (4 + 1 - 1) / (242 * 1)
	assert.InDelta(t, 4.0/242.0, v.UniqueFillRatio, 1e-12)

	v = w.ProcessEntry(1, 0.5, payload("efgh"))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 2, v.NUniqueLabels)
	assert.InDelta(t, 2.0, v.UniqueQueryRate, 1e-12)
	assert.InDelta(t, 8.0, v.UniqueTransferRate, 1e-12)
}

func TestTimeWindow_BoundaryEntryStays(t *testing.T) {
	t.Parallel()

	w := NewTimeWindow(1.0, 10)
	w.ProcessEntry(0, 0.0, payload("abcd"))
	w.ProcessEntry(1, 1.0, payload("efgh"))

	// An entry exactly at ts-duration is still inside the window.
	assert.Equal(t, 2, w.Len())
}

func TestTimeWindow_EvictsExpiredEntries(t *testing.T) {
	t.Parallel()

	w := NewTimeWindow(1.0, 10)
	w.ProcessEntry(0, 0.0, payload("abcd"))
	w.ProcessEntry(1, 0.1, payload("efgh"))

	v := w.ProcessEntry(2, 10.0, payload("abcd"))
	assert.Equal(t, 1, w.Len())

	// After full eviction the snapshot matches a fresh window.
	fresh := NewTimeWindow(1.0, 10)
	want := fresh.ProcessEntry(2, 0.0, payload("abcd"))
	assert.Equal(t, want, v)
}

func TestTimeWindow_DuplicateQueries(t *testing.T) {
	t.Parallel()

	w := NewTimeWindow(10.0, 10)
	w.ProcessEntry(0, 0.0, payload("abcd"))
	v := w.ProcessEntry(1, 1.0, payload("abcd"))

	assert.InDelta(t, 0.5, v.UniqueQueryRatio, 1e-12)
	assert.InDelta(t, 0.1, v.UniqueQueryRate, 1e-12)
	assert.InDelta(t, 0.4, v.UniqueTransferRate, 1e-12)
}
