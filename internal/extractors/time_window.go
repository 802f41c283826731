package extractors

import "dns-analytics/internal/models"

// dnsNameBudget is the maximum encoded DNS name length; the payload may
// use whatever the primary domain and its separator leave open.
const dnsNameBudget = 253

func openSpace(primaryDomainLength uint8) float64 {
	return float64(dnsNameBudget - (int(primaryDomainLength) + 1))
}

type timeEntry struct {
	ts      float64
	payload *models.Payload
}

// TimeWindow maintains aggregate statistics over all queries of one
// domain within a trailing time span. Entries must be processed in
// chronological order; the content queue is timestamp-ordered by
// construction.
type TimeWindow struct {
	duration  float64
	openSpace float64
	content   []timeEntry
	state     *WindowState
}

func NewTimeWindow(duration float64, primaryDomainLength uint8) *TimeWindow {
	return &TimeWindow{
		duration:  duration,
		openSpace: openSpace(primaryDomainLength),
		state:     NewWindowState(),
	}
}

// ProcessEntry evicts expired entries, adds the new one, and returns the
// feature snapshot including the new entry's own contribution.
func (w *TimeWindow) ProcessEntry(id uint32, ts float64, payload *models.Payload) models.TimeWindowFeatureVector {
	minTS := ts - w.duration
	for len(w.content) > 0 && w.content[0].ts < minTS {
		w.state.Remove(w.content[0].payload)
		w.content = w.content[1:]
	}

	w.state.Add(payload)
	w.content = append(w.content, timeEntry{ts: ts, payload: payload})

	return timeFeaturesFromState(id, w.state, w.openSpace, w.duration)
}

// Len returns the number of entries currently held by the window.
func (w *TimeWindow) Len() int { return len(w.content) }

func timeFeaturesFromState(id uint32, s *WindowState, openSpace, duration float64) models.TimeWindowFeatureVector {
	nUniqueQueries := float64(s.NUniqueQueries())
	nUniqueLabels := s.NUniqueLabels()
	totalUniqueLabelLen := float64(s.TotalUniqueLabelLen())

	return models.TimeWindowFeatureVector{
		ID:                   id,
		NUniqueLabels:        nUniqueLabels,
		UniqueQueryRate:      nUniqueQueries / duration,
		Entropy:              s.Entropy(),
		UniqueTransferRate:   totalUniqueLabelLen / duration,
		AvgUniqueLabelLength: totalUniqueLabelLen / float64(nUniqueLabels),
		UniqueFillRatio:      (totalUniqueLabelLen + float64(nUniqueLabels) - nUniqueQueries) / (openSpace * nUniqueQueries),
		MaxLabelLength:       s.MaxLabelLen(),
		UniqueQueryRatio:     nUniqueQueries / float64(s.NQueries()),
	}
}
