package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureModes_Any(t *testing.T) {
	t.Parallel()

	assert.False(t, FeatureModes{}.Any())
	assert.True(t, FeatureModes{Payload: true}.Any())
	assert.True(t, FeatureModes{TimeWindow: true}.Any())
	assert.True(t, FeatureModes{FixedWindow: true}.Any())
}

func TestFeatureModes_Header(t *testing.T) {
	t.Parallel()

	header := FeatureModes{Payload: true}.Header()
	require.Len(t, header, 10)
	assert.Equal(t, "pl_id", header[0])
	assert.Equal(t, "pl_fill_ratio", header[9])

	header = FeatureModes{TimeWindow: true}.Header()
	require.Len(t, header, 9)
	assert.Equal(t, "win_time_id", header[0])
	assert.Equal(t, "win_time_unique_query_ratio", header[8])

	header = FeatureModes{FixedWindow: true}.Header()
	require.Len(t, header, 7)
	assert.Equal(t, "win_fixed_id", header[0])
	assert.Equal(t, "win_fixed_unique_query_ratio", header[6])

	header = FeatureModes{Payload: true, TimeWindow: true, FixedWindow: true}.Header()
	assert.Len(t, header, 26)
}

func TestFeatureRow_RecordMatchesHeader(t *testing.T) {
	t.Parallel()

	modes := FeatureModes{Payload: true, TimeWindow: true, FixedWindow: true}
	row := FeatureRow{
		ID:          42,
		Payload:     &PayloadFeatureVector{ID: 42},
		TimeWindow:  &TimeWindowFeatureVector{ID: 42},
		FixedWindow: &FixedWindowFeatureVector{ID: 42},
	}

	fields := row.Record(modes)
	assert.Len(t, fields, len(modes.Header()))
}

func TestFeatureRow_RecordValues(t *testing.T) {
	t.Parallel()

	modes := FeatureModes{Payload: true}
	row := FeatureRow{
		ID: 3,
		Payload: &PayloadFeatureVector{
			ID:             3,
			NUnique:        4,
			RatioUnique:    0.5,
			NDigits:        1,
			NInvalid:       0,
			NLabels:        2,
			AvgLabelLength: 4.5,
			MaxLabelLength: 6,
			Entropy:        2.0,
			FillRatio:      0.25,
		},
	}

	assert.Equal(t, []string{
		"3", "4", "0.5", "1", "0", "2", "4.5", "6", "2", "0.25",
	}, row.Record(modes))
}
