package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedWindow_AccumulatesUpToSize(t *testing.T) {
	t.Parallel()

	w := NewFixedWindow(2, 10)

	v := w.ProcessEntry(0, payload("abcd"))
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 1, v.NUniqueLabels)
	assert.InDelta(t, 4.0, v.AvgUniqueLabelLength, 1e-12)
	assert.Equal(t, 4, v.MaxLabelLength)
	assert.InDelta(t, 1.0, v.UniqueQueryRatio, 1e-12)
	assert.InDelta(t, 4.0/242.0, v.UniqueFillRatio, 1e-12)

	v = w.ProcessEntry(1, payload("efghij"))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 2, v.NUniqueLabels)
	assert.InDelta(t, 5.0, v.AvgUniqueLabelLength, 1e-12)
	assert.Equal(t, 6, v.MaxLabelLength)
}

func TestFixedWindow_EvictsOldestWhenFull(t *testing.T) {
	t.Parallel()

	w := NewFixedWindow(2, 10)
	w.ProcessEntry(0, payload("abcd"))
	w.ProcessEntry(1, payload("efghij"))

	v := w.ProcessEntry(2, payload("xy"))
	assert.Equal(t, 2, w.Len())

	// "abcd" is gone; only "efghij" and "xy" remain.
	assert.Equal(t, 2, v.NUniqueLabels)
	assert.InDelta(t, 4.0, v.AvgUniqueLabelLength, 1e-12)
	assert.Equal(t, 6, v.MaxLabelLength)
}

func TestFixedWindow_NeverExceedsSize(t *testing.T) {
	t.Parallel()

	w := NewFixedWindow(3, 10)
	for i := 0; i < 10; i++ {
		w.ProcessEntry(uint32(i), payload("abcd"))
	}
	assert.Equal(t, 3, w.Len())

	v := w.ProcessEntry(10, payload("abcd"))
	assert.InDelta(t, 1.0/3.0, v.UniqueQueryRatio, 1e-9)
}

func TestFixedWindow_SizeOneTracksSingleQuery(t *testing.T) {
	t.Parallel()

	w := NewFixedWindow(1, 10)
	w.ProcessEntry(0, payload("abcd"))
	v := w.ProcessEntry(1, payload("efghijkl"))

	assert.Equal(t, 1, w.Len())
	assert.Equal(t, 1, v.NUniqueLabels)
	assert.Equal(t, 8, v.MaxLabelLength)
	assert.InDelta(t, 1.0, v.UniqueQueryRatio, 1e-12)
}
