package extractors

import (
	"math"

	"dns-analytics/internal/models"
)

// PayloadFeatures computes the stateless per-query features over a single
// payload. No window is involved; every call is independent.
func PayloadFeatures(id uint32, p *models.Payload, primaryDomainLength uint8) models.PayloadFeatureVector {
	nLabels := len(p.Labels)
	if nLabels == 0 {
		// Unreachable after parsing, which rejects empty label sets.
		return models.PayloadFeatureVector{ID: id}
	}

	totalLen := 0
	maxLabelLength := 0
	for _, label := range p.Labels {
		totalLen += len(label)
		if len(label) > maxLabelLength {
			maxLabelLength = len(label)
		}
	}
	avgLabelLength := float64(totalLen) / float64(nLabels)

	nDigits := 0
	nInvalid := 0

	var asciiCounts [128]int
	otherCounts := make(map[byte]int)
	nTotal := 0.0

	for _, label := range p.Labels {
		for i := 0; i < len(label); i++ {
			ch := label[i]
			if ch == '.' {
				continue
			}
			nTotal++

			if ch < 128 {
				asciiCounts[ch]++
				switch {
				case ch >= '0' && ch <= '9':
					nDigits++
				case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '-', ch == '_':
				default:
					nInvalid++
				}
			} else {
				otherCounts[ch]++
				nInvalid++
			}
		}
	}

	nUnique := 0
	acc := 0.0
	for _, c := range otherCounts {
		if c != 0 {
			nUnique++
			acc += float64(c) * math.Log(float64(c)/nTotal)
		}
	}
	for _, c := range asciiCounts {
		if c != 0 {
			nUnique++
			acc += float64(c) * math.Log(float64(c)/nTotal)
		}
	}

	return models.PayloadFeatureVector{
		ID:             id,
		NUnique:        nUnique,
		RatioUnique:    float64(nUnique) / nTotal,
		NDigits:        nDigits,
		NInvalid:       nInvalid,
		NLabels:        nLabels,
		AvgLabelLength: avgLabelLength,
		MaxLabelLength: maxLabelLength,
		Entropy:        math.Abs(acc) / (nTotal * math.Ln2),
		FillRatio:      float64(p.EncodedLen) / openSpace(primaryDomainLength),
	}
}
