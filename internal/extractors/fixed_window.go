package extractors

import "dns-analytics/internal/models"

// FixedWindow maintains aggregate statistics over the last N queries of
// one domain. The content queue never exceeds the window size.
type FixedWindow struct {
	size      int
	openSpace float64
	content   []*models.Payload
	state     *WindowState
}

func NewFixedWindow(size int, primaryDomainLength uint8) *FixedWindow {
	return &FixedWindow{
		size:      size,
		openSpace: openSpace(primaryDomainLength),
		content:   make([]*models.Payload, 0, size),
		state:     NewWindowState(),
	}
}

// ProcessEntry evicts the oldest entry when the window is full, adds the
// new one, and returns the feature snapshot including the new entry's own
// contribution.
func (w *FixedWindow) ProcessEntry(id uint32, payload *models.Payload) models.FixedWindowFeatureVector {
	if len(w.content) >= w.size {
		w.state.Remove(w.content[0])
		w.content = w.content[1:]
	}

	w.state.Add(payload)
	w.content = append(w.content, payload)

	return fixedFeaturesFromState(id, w.state, w.openSpace)
}

// Len returns the number of entries currently held by the window.
func (w *FixedWindow) Len() int { return len(w.content) }

func fixedFeaturesFromState(id uint32, s *WindowState, openSpace float64) models.FixedWindowFeatureVector {
	nUniqueQueries := float64(s.NUniqueQueries())
	nUniqueLabels := s.NUniqueLabels()
	totalUniqueLabelLen := float64(s.TotalUniqueLabelLen())

	return models.FixedWindowFeatureVector{
		ID:                   id,
		NUniqueLabels:        nUniqueLabels,
		Entropy:              s.Entropy(),
		AvgUniqueLabelLength: totalUniqueLabelLen / float64(nUniqueLabels),
		UniqueFillRatio:      (totalUniqueLabelLen + float64(nUniqueLabels) - nUniqueQueries) / (openSpace * nUniqueQueries),
		MaxLabelLength:       s.MaxLabelLen(),
		UniqueQueryRatio:     nUniqueQueries / float64(s.NQueries()),
	}
}
