package models

import "strconv"

// PayloadFeatureVector holds the stateless per-query features.
// Column prefix: pl_.
type PayloadFeatureVector struct {
	ID             uint32
	NUnique        int
	RatioUnique    float64
	NDigits        int
	NInvalid       int
	NLabels        int
	AvgLabelLength float64
	MaxLabelLength int
	Entropy        float64
	FillRatio      float64
}

// TimeWindowFeatureVector holds the aggregate features over an
// elapsed-time window. Column prefix: win_time_.
type TimeWindowFeatureVector struct {
	ID                   uint32
	NUniqueLabels        int
	UniqueQueryRate      float64
	Entropy              float64
	UniqueTransferRate   float64
	AvgUniqueLabelLength float64
	UniqueFillRatio      float64
	MaxLabelLength       int
	UniqueQueryRatio     float64
}

// FixedWindowFeatureVector holds the aggregate features over a
// fixed-count window. Column prefix: win_fixed_.
type FixedWindowFeatureVector struct {
	ID                   uint32
	NUniqueLabels        int
	Entropy              float64
	AvgUniqueLabelLength float64
	UniqueFillRatio      float64
	MaxLabelLength       int
	UniqueQueryRatio     float64
}

// FeatureModes selects which feature groups a run computes. Modes are not
// mutually exclusive; every enabled mode is computed per query in the
// same pass.
type FeatureModes struct {
	Payload     bool
	TimeWindow  bool
	FixedWindow bool
}

// Any reports whether at least one feature mode is enabled.
func (m FeatureModes) Any() bool {
	return m.Payload || m.TimeWindow || m.FixedWindow
}

// FeatureRow is one output row per processed query. A sub-vector is nil
// exactly when its mode is disabled for the run.
type FeatureRow struct {
	ID          uint32
	Payload     *PayloadFeatureVector
	TimeWindow  *TimeWindowFeatureVector
	FixedWindow *FixedWindowFeatureVector
}

var payloadColumns = []string{
	"pl_id", "pl_n_unique", "pl_ratio_unique", "pl_n_digits", "pl_n_invalid",
	"pl_n_labels", "pl_avg_label_length", "pl_max_label_length", "pl_entropy",
	"pl_fill_ratio",
}

var timeWindowColumns = []string{
	"win_time_id", "win_time_n_unique_labels", "win_time_unique_query_rate",
	"win_time_entropy", "win_time_unique_transfer_rate",
	"win_time_avg_unique_label_length", "win_time_unique_fill_ratio",
	"win_time_max_label_length", "win_time_unique_query_ratio",
}

var fixedWindowColumns = []string{
	"win_fixed_id", "win_fixed_n_unique_labels", "win_fixed_entropy",
	"win_fixed_avg_unique_label_length", "win_fixed_unique_fill_ratio",
	"win_fixed_max_label_length", "win_fixed_unique_query_ratio",
}

// Header returns the CSV column names for the enabled modes, in the fixed
// column order the downstream consumer expects.
func (m FeatureModes) Header() []string {
	var header []string
	if m.Payload {
		header = append(header, payloadColumns...)
	}
	if m.TimeWindow {
		header = append(header, timeWindowColumns...)
	}
	if m.FixedWindow {
		header = append(header, fixedWindowColumns...)
	}
	return header
}

// Record renders the row as CSV fields for the enabled modes. The caller
// guarantees that every enabled mode has its sub-vector populated.
func (r *FeatureRow) Record(m FeatureModes) []string {
	fields := make([]string, 0, len(payloadColumns)+len(timeWindowColumns)+len(fixedWindowColumns))
	if m.Payload {
		v := r.Payload
		fields = append(fields,
			formatUint(v.ID), formatInt(v.NUnique), formatFloat(v.RatioUnique),
			formatInt(v.NDigits), formatInt(v.NInvalid), formatInt(v.NLabels),
			formatFloat(v.AvgLabelLength), formatInt(v.MaxLabelLength),
			formatFloat(v.Entropy), formatFloat(v.FillRatio))
	}
	if m.TimeWindow {
		v := r.TimeWindow
		fields = append(fields,
			formatUint(v.ID), formatInt(v.NUniqueLabels), formatFloat(v.UniqueQueryRate),
			formatFloat(v.Entropy), formatFloat(v.UniqueTransferRate),
			formatFloat(v.AvgUniqueLabelLength), formatFloat(v.UniqueFillRatio),
			formatInt(v.MaxLabelLength), formatFloat(v.UniqueQueryRatio))
	}
	if m.FixedWindow {
		v := r.FixedWindow
		fields = append(fields,
			formatUint(v.ID), formatInt(v.NUniqueLabels), formatFloat(v.Entropy),
			formatFloat(v.AvgUniqueLabelLength), formatFloat(v.UniqueFillRatio),
			formatInt(v.MaxLabelLength), formatFloat(v.UniqueQueryRatio))
	}
	return fields
}

func formatUint(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

// formatFloat uses the shortest representation that round-trips. Non-finite
// values render as NaN/+Inf/-Inf; they are preserved rather than clamped.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
